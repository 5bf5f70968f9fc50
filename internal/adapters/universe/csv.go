package universe

import (
	"context"
	"encoding/csv"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	pipelineuniverse "github.com/selivandex/marketpulse/internal/universe"
	"github.com/selivandex/marketpulse/pkg/logger"
	"github.com/selivandex/marketpulse/pkg/models"
)

// CSVSource fetches the instrument listing as CSV over HTTP. The listing
// must carry a company-name column, a symbol column and an industry or
// sector column; header names vary across exchanges.
type CSVSource struct {
	url            string
	exchangeSuffix string
	client         *http.Client
}

// NewCSVSource creates a universe source for the given listing URL.
// exchangeSuffix (e.g. ".NS") is appended to bare symbols.
func NewCSVSource(url, exchangeSuffix string, timeout time.Duration) *CSVSource {
	return &CSVSource{
		url:            url,
		exchangeSuffix: exchangeSuffix,
		client:         &http.Client{Timeout: timeout},
	}
}

// FetchRows downloads and parses the listing. A failed fetch or an
// unusable header yields ErrSourceUnavailable; individual malformed rows
// are skipped and counted, never fatal.
func (s *CSVSource) FetchRows(ctx context.Context) ([]pipelineuniverse.Row, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", s.url, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create request: %v", models.ErrSourceUnavailable, err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: request failed: %v", models.ErrSourceUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: HTTP error %d", models.ErrSourceUnavailable, resp.StatusCode)
	}

	reader := csv.NewReader(resp.Body)
	reader.FieldsPerRecord = -1 // listings are ragged in practice

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read header: %v", models.ErrSourceUnavailable, err)
	}

	nameIdx, symbolIdx, sectorIdx := locateColumns(header)
	if nameIdx < 0 || symbolIdx < 0 {
		return nil, fmt.Errorf("%w: listing has no company name or symbol column", models.ErrSourceUnavailable)
	}

	var rows []pipelineuniverse.Row
	skipped := 0

	for {
		record, err := reader.Read()
		if err != nil {
			break // io.EOF or a ragged record mid-file, stop either way
		}

		row, ok := s.parseRow(record, nameIdx, symbolIdx, sectorIdx)
		if !ok {
			skipped++
			continue
		}
		rows = append(rows, row)
	}

	logger.Debug("universe listing fetched",
		zap.Int("rows", len(rows)),
		zap.Int("skipped", skipped),
	)

	return rows, nil
}

// parseRow extracts one listing row; rows missing name or symbol are malformed
func (s *CSVSource) parseRow(record []string, nameIdx, symbolIdx, sectorIdx int) (pipelineuniverse.Row, bool) {
	if nameIdx >= len(record) || symbolIdx >= len(record) {
		return pipelineuniverse.Row{}, false
	}

	name := strings.TrimSpace(record[nameIdx])
	symbol := strings.TrimSpace(record[symbolIdx])
	if name == "" || symbol == "" {
		return pipelineuniverse.Row{}, false
	}

	if s.exchangeSuffix != "" && !strings.Contains(symbol, ".") {
		symbol += s.exchangeSuffix
	}

	sector := ""
	if sectorIdx >= 0 && sectorIdx < len(record) {
		sector = strings.TrimSpace(record[sectorIdx])
	}

	return pipelineuniverse.Row{
		CompanyName: name,
		Symbol:      symbol,
		Sector:      sector,
	}, true
}

// locateColumns finds the name, symbol and industry/sector columns in a
// listing header, tolerating the naming variants seen across providers
func locateColumns(header []string) (nameIdx, symbolIdx, sectorIdx int) {
	nameIdx, symbolIdx, sectorIdx = -1, -1, -1

	for i, col := range header {
		normalized := strings.ToLower(strings.TrimSpace(col))
		switch {
		case nameIdx < 0 && (normalized == "company name" || normalized == "name of company" || normalized == "company"):
			nameIdx = i
		case symbolIdx < 0 && normalized == "symbol":
			symbolIdx = i
		case sectorIdx < 0 && (normalized == "industry" || normalized == "sector"):
			sectorIdx = i
		}
	}

	return nameIdx, symbolIdx, sectorIdx
}
