package universe

// FallbackRows is a small fixed instrument table used when the universe
// source is unavailable or malformed, so a run can still complete.
func FallbackRows() []Row {
	return []Row{
		{CompanyName: "Reliance Industries Limited", Symbol: "RELIANCE.NS", Sector: "Energy"},
		{CompanyName: "Tata Consultancy Services Limited", Symbol: "TCS.NS", Sector: "IT"},
		{CompanyName: "HDFC Bank Limited", Symbol: "HDFCBANK.NS", Sector: "Banking"},
		{CompanyName: "Infosys Limited", Symbol: "INFY.NS", Sector: "IT"},
		{CompanyName: "Tata Motors Limited", Symbol: "TATAMOTORS.NS", Sector: "Auto"},
	}
}
