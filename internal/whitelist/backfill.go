// Package whitelist prepares the raw whitelist spreadsheet before it is
// split into per-agreement files.
package whitelist

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/airwl/whitemail/internal/logging"
	"github.com/airwl/whitemail/internal/mailer"
	"github.com/airwl/whitemail/internal/sheet"
)

// Contact list column giving the canonical customer name per agreement
const columnCustomerName = "协议客户名称"

// Raw whitelist column that gets backfilled
const columnCompanyName = "公司名称"

// Backfill overwrites the company-name column of the raw whitelist with
// the canonical customer name from the contact list wherever the
// agreement id has a mapping, keeping the original value otherwise. The
// result is written to outPath; rawPath is left untouched. It returns
// the number of rows updated.
func Backfill(rawPath, contactsPath, outPath string, log logging.Logger) (int, error) {
	contacts, err := sheet.Open(contactsPath)
	if err != nil {
		return 0, fmt.Errorf("reading contact list: %w", err)
	}
	if !contacts.HasColumns(mailer.ColumnAgreementID, columnCustomerName) {
		return 0, fmt.Errorf("contact list is missing required columns %s, %s", mailer.ColumnAgreementID, columnCustomerName)
	}

	names := make(map[string]string, contacts.Len())
	for i := 0; i < contacts.Len(); i++ {
		id := contacts.Cell(i, mailer.ColumnAgreementID)
		name := contacts.Cell(i, columnCustomerName)
		if id != "" && name != "" {
			names[id] = name
		}
	}
	log.Info("contact list loaded", logging.F("path", contactsPath), logging.F("agreements", len(names)))

	f, err := excelize.OpenFile(rawPath)
	if err != nil {
		return 0, fmt.Errorf("opening raw whitelist %s: %w", rawPath, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return 0, fmt.Errorf("%s has no worksheets", rawPath)
	}
	ws := sheets[0]

	rows, err := f.GetRows(ws)
	if err != nil {
		return 0, fmt.Errorf("reading %s!%s: %w", rawPath, ws, err)
	}
	if len(rows) == 0 {
		return 0, fmt.Errorf("%s!%s is empty", rawPath, ws)
	}

	agreementCol, companyCol := -1, -1
	for i, label := range rows[0] {
		switch sheet.Normalize(label) {
		case mailer.ColumnAgreementID:
			agreementCol = i
		case columnCompanyName:
			companyCol = i
		}
	}
	if agreementCol < 0 || companyCol < 0 {
		return 0, fmt.Errorf("raw whitelist is missing required columns %s, %s", mailer.ColumnAgreementID, columnCompanyName)
	}

	updated := 0
	for i := 1; i < len(rows); i++ {
		row := rows[i]
		if agreementCol >= len(row) {
			continue
		}
		name, ok := names[sheet.Normalize(row[agreementCol])]
		if !ok {
			continue
		}

		cell, err := excelize.CoordinatesToCellName(companyCol+1, i+1)
		if err != nil {
			return updated, fmt.Errorf("addressing row %d: %w", i+1, err)
		}
		if err := f.SetCellValue(ws, cell, name); err != nil {
			return updated, fmt.Errorf("updating row %d: %w", i+1, err)
		}
		updated++
	}

	if err := f.SaveAs(outPath); err != nil {
		return updated, fmt.Errorf("writing %s: %w", outPath, err)
	}
	log.Info("whitelist updated", logging.F("out", outPath), logging.F("rows_updated", updated))

	return updated, nil
}
