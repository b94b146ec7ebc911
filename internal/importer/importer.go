// Package importer reads supplier price lists (CSV or Excel) into board
// materials for the inventory. It detects the delimiter, maps columns by
// header name with typo tolerance, and accepts decimal commas and currency
// symbols in price cells.
package importer

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/agnivade/levenshtein"
	"github.com/piwi3910/CaseForge/internal/model"
	"github.com/xuri/excelize/v2"
)

// ImportResult holds the results of an import operation.
type ImportResult struct {
	Materials []model.Material
	Errors    []string
	Warnings  []string
}

// ColumnMapping maps semantic column roles to their indices in the data.
type ColumnMapping struct {
	Name   int
	Price  int
	Sample int
	Color  int
}

// headerAliases maps canonical column names to their accepted aliases (all lowercase).
var headerAliases = map[string][]string{
	"name":   {"name", "material", "matière", "matiere", "finish", "board", "description", "label"},
	"price":  {"price", "price/m2", "price per m2", "price_per_m2", "€/m2", "eur/m2", "prix", "prix/m2", "board price"},
	"sample": {"sample", "sample rate", "sample_rate", "facade", "façade", "facade price", "finish price", "échantillon"},
	"color":  {"color", "colour", "couleur", "hex"},
}

// roleOrder keeps alias matching deterministic.
var roleOrder = []string{"name", "price", "sample", "color"}

var hexColor = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

// DetectCSVDelimiter reads the file content and determines the most likely CSV delimiter.
// It tries comma, semicolon, tab, and pipe. The delimiter that produces the most
// consistent (non-one) column count across lines wins.
func DetectCSVDelimiter(data []byte) rune {
	candidates := []rune{',', ';', '\t', '|'}
	bestDelimiter := ','
	bestScore := 0

	for _, delim := range candidates {
		reader := csv.NewReader(bytes.NewReader(data))
		reader.Comma = delim
		reader.LazyQuotes = true
		reader.FieldsPerRecord = -1

		records, err := reader.ReadAll()
		if err != nil || len(records) < 1 {
			continue
		}

		firstCols := len(records[0])
		if firstCols < 2 {
			continue
		}

		score := 0
		for _, row := range records {
			if len(row) == firstCols {
				score++
			}
		}

		weighted := score*10 + firstCols
		if weighted > bestScore {
			bestScore = weighted
			bestDelimiter = delim
		}
	}

	return bestDelimiter
}

// matchRole returns the role a header cell names. Exact aliases win; otherwise
// the closest alias within a length-scaled edit distance is used and fuzzy is
// set.
func matchRole(cell string) (role string, fuzzy bool, ok bool) {
	normalized := strings.ToLower(strings.TrimSpace(cell))
	if normalized == "" {
		return "", false, false
	}
	for _, r := range roleOrder {
		for _, alias := range headerAliases[r] {
			if normalized == alias {
				return r, false, true
			}
		}
	}
	if len(normalized) < 3 {
		return "", false, false
	}
	bestDist := -1
	for _, r := range roleOrder {
		for _, alias := range headerAliases[r] {
			dist := levenshtein.ComputeDistance(normalized, alias)
			if dist > aliasLimit(len(alias)) {
				continue
			}
			if bestDist < 0 || dist < bestDist {
				role, bestDist = r, dist
			}
		}
	}
	return role, true, bestDist >= 0
}

func aliasLimit(length int) int {
	switch {
	case length <= 4:
		return 1
	case length <= 8:
		return 2
	default:
		return 3
	}
}

// DetectColumns examines a header row and returns a ColumnMapping.
// Headers are matched case-insensitively against known aliases, tolerating
// small typos. Returns the mapping and true if a header was detected, or a
// positional mapping (name, price, sample, color) and false otherwise.
func DetectColumns(row []string) (ColumnMapping, bool) {
	mapping, _, ok := detectColumns(row)
	return mapping, ok
}

func detectColumns(row []string) (ColumnMapping, []string, bool) {
	mapping := ColumnMapping{Name: -1, Price: -1, Sample: -1, Color: -1}
	var notes []string

	isHeader := false
	for i, cell := range row {
		role, fuzzy, ok := matchRole(cell)
		if !ok {
			continue
		}
		// A bare number is data, however close it is to an alias.
		if _, err := strconv.ParseFloat(strings.TrimSpace(cell), 64); err == nil {
			continue
		}
		var slot *int
		switch role {
		case "name":
			slot = &mapping.Name
		case "price":
			slot = &mapping.Price
		case "sample":
			slot = &mapping.Sample
		case "color":
			slot = &mapping.Color
		}
		if *slot != -1 {
			continue
		}
		*slot = i
		isHeader = true
		if fuzzy {
			notes = append(notes, fmt.Sprintf("Column '%s' read as %s", strings.TrimSpace(cell), role))
		}
	}

	if !isHeader {
		return ColumnMapping{Name: 0, Price: 1, Sample: 2, Color: 3}, nil, false
	}
	return mapping, notes, true
}

// parseAmount reads a price cell: "42", "42.50", "42,50", "€ 42,50",
// "1 234,50 EUR".
func parseAmount(s string) (float64, error) {
	cleaned := strings.Map(func(r rune) rune {
		switch {
		case r >= '0' && r <= '9', r == '.', r == ',', r == '-':
			return r
		default:
			return -1
		}
	}, s)
	if cleaned == "" {
		return 0, fmt.Errorf("no number in %q", s)
	}
	// "1.234,50" and "1,234.50": the last separator is the decimal point.
	lastComma := strings.LastIndex(cleaned, ",")
	lastDot := strings.LastIndex(cleaned, ".")
	switch {
	case lastComma > lastDot:
		cleaned = strings.ReplaceAll(cleaned, ".", "")
		cleaned = strings.Replace(cleaned, ",", ".", 1)
	case lastDot > lastComma:
		cleaned = strings.ReplaceAll(cleaned, ",", "")
	}
	if strings.Count(cleaned, ".") > 1 {
		return 0, fmt.Errorf("ambiguous number %q", s)
	}
	return strconv.ParseFloat(cleaned, 64)
}

// getCell safely retrieves a cell value from a row by column index.
// Returns empty string if the index is out of range or negative.
func getCell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

// parseRow extracts a Material from a row using the given column mapping.
// Returns the material, any error message, and any warning messages.
func parseRow(row []string, mapping ColumnMapping, rowLabel string) (model.Material, string, []string) {
	name := getCell(row, mapping.Name)
	if name == "" {
		return model.Material{}, fmt.Sprintf("%s: Missing material name", rowLabel), nil
	}

	priceStr := getCell(row, mapping.Price)
	if priceStr == "" {
		return model.Material{}, fmt.Sprintf("%s: Missing price for '%s'", rowLabel, name), nil
	}
	price, err := parseAmount(priceStr)
	if err != nil {
		return model.Material{}, fmt.Sprintf("%s: Invalid price '%s'", rowLabel, priceStr), nil
	}
	if price < 0 {
		return model.Material{}, fmt.Sprintf("%s: Price must not be negative", rowLabel), nil
	}

	var warnings []string
	sample := 0.0
	if s := getCell(row, mapping.Sample); s != "" {
		v, err := parseAmount(s)
		switch {
		case err != nil:
			warnings = append(warnings, fmt.Sprintf("%s: Invalid sample rate '%s', using 0", rowLabel, s))
		case v < 0:
			warnings = append(warnings, fmt.Sprintf("%s: Negative sample rate, using 0", rowLabel))
		default:
			sample = v
		}
	}

	color := getCell(row, mapping.Color)
	if color != "" && !strings.HasPrefix(color, "#") {
		color = "#" + color
	}
	if color != "" && !hexColor.MatchString(color) {
		warnings = append(warnings, fmt.Sprintf("%s: Unknown colour '%s', ignored", rowLabel, getCell(row, mapping.Color)))
		color = ""
	}

	return model.NewMaterial(name, price, sample, strings.ToLower(color)), "", warnings
}

// isEmptyRow returns true if the row has no meaningful content.
func isEmptyRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// ImportCSV imports materials from a CSV file.
// It automatically detects the delimiter and maps columns by header names.
// Supports comma, semicolon, tab, and pipe delimiters.
func ImportCSV(path string) ImportResult {
	result := ImportResult{}

	data, err := os.ReadFile(path)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot open file: %v", err))
		return result
	}

	if len(bytes.TrimSpace(data)) == 0 {
		result.Errors = append(result.Errors, "File is empty")
		return result
	}

	delimiter := DetectCSVDelimiter(data)
	var warnings []string
	if delimiter != ',' {
		delimName := map[rune]string{';': "semicolon", '\t': "tab", '|': "pipe"}[delimiter]
		warnings = append(warnings, fmt.Sprintf("Detected %s delimiter", delimName))
	}

	records, err := readCSV(bytes.NewReader(data), delimiter)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot read CSV: %v", err))
		return result
	}

	return importFromRows(records, "Line", warnings)
}

// ImportCSVFromReader imports materials from a CSV reader with a specific delimiter.
func ImportCSVFromReader(reader io.Reader, delimiter rune) ImportResult {
	records, err := readCSV(reader, delimiter)
	if err != nil {
		return ImportResult{Errors: []string{fmt.Sprintf("Cannot read CSV: %v", err)}}
	}
	return importFromRows(records, "Line", nil)
}

func readCSV(r io.Reader, delimiter rune) ([][]string, error) {
	reader := csv.NewReader(r)
	reader.Comma = delimiter
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1
	return reader.ReadAll()
}

// ImportExcel imports materials from an Excel (.xlsx) file.
// Reads the first sheet and auto-detects column mapping from headers.
func ImportExcel(path string) ImportResult {
	result := ImportResult{}

	f, err := excelize.OpenFile(path)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot open Excel file: %v", err))
		return result
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		result.Errors = append(result.Errors, "Excel file has no sheets")
		return result
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot read Excel data: %v", err))
		return result
	}

	return importFromRows(rows, "Row", nil)
}

// ImportFile dispatches on the file extension: .xlsx and .xlsm go to
// ImportExcel, anything else to ImportCSV.
func ImportFile(path string) ImportResult {
	lower := strings.ToLower(path)
	if strings.HasSuffix(lower, ".xlsx") || strings.HasSuffix(lower, ".xlsm") {
		return ImportExcel(path)
	}
	return ImportCSV(path)
}

// importFromRows is the shared import logic for both CSV and Excel data.
// It detects headers, maps columns, and parses each row into materials.
// Later rows naming an already imported material are skipped.
func importFromRows(rows [][]string, rowPrefix string, initialWarnings []string) ImportResult {
	result := ImportResult{
		Warnings: initialWarnings,
	}

	if len(rows) == 0 || (len(rows) == 1 && isEmptyRow(rows[0])) {
		result.Errors = append(result.Errors, "File is empty")
		return result
	}

	mapping, notes, hasHeader := detectColumns(rows[0])
	startRow := 0
	if hasHeader {
		startRow = 1
		result.Warnings = append(result.Warnings, "Detected header row, skipping")
		result.Warnings = append(result.Warnings, notes...)

		missing := []string{}
		if mapping.Name == -1 {
			missing = append(missing, "Name")
		}
		if mapping.Price == -1 {
			missing = append(missing, "Price")
		}
		if len(missing) > 0 {
			result.Errors = append(result.Errors, fmt.Sprintf("Required columns not found in header: %s", strings.Join(missing, ", ")))
			return result
		}
	} else if _, err := parseAmount(getCell(rows[0], 1)); err != nil {
		// Unrecognized header over positional data.
		startRow = 1
		result.Warnings = append(result.Warnings, "Detected header row, skipping")
	}

	seen := make(map[string]int)
	for i := startRow; i < len(rows); i++ {
		row := rows[i]
		if isEmptyRow(row) {
			continue
		}

		rowLabel := fmt.Sprintf("%s %d", rowPrefix, i+1)
		material, errMsg, warnings := parseRow(row, mapping, rowLabel)
		if errMsg != "" {
			result.Errors = append(result.Errors, errMsg)
			continue
		}
		result.Warnings = append(result.Warnings, warnings...)

		key := strings.ToLower(material.Name)
		if first, dup := seen[key]; dup {
			result.Warnings = append(result.Warnings, fmt.Sprintf("%s: Duplicate material '%s' (first on %s %d), skipped", rowLabel, material.Name, rowPrefix, first))
			continue
		}
		seen[key] = i + 1
		result.Materials = append(result.Materials, material)
	}

	return result
}
