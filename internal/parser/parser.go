package parser

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"elevator-chat/internal/models"

	"github.com/ledongthuc/pdf"
	"github.com/nguyenthenguyen/docx"
	"github.com/rs/zerolog/log"
	"github.com/tealeg/xlsx"
	"github.com/xuri/excelize/v2"
)

// ParsePages extracts per-page plain text from a manual file. sourceName is
// the name the pages are tagged with (the uploaded filename); when empty the
// base of filePath is used. Pages with no extractable text are skipped.
func ParsePages(filePath, sourceName string) ([]models.Page, error) {
	if sourceName == "" {
		sourceName = filepath.Base(filePath)
	}

	ext := strings.ToLower(filepath.Ext(sourceName))
	if ext == "" {
		ext = strings.ToLower(filepath.Ext(filePath))
	}

	switch ext {
	case ".pdf":
		return parsePDF(filePath, sourceName)
	case ".docx":
		return parseDOCX(filePath, sourceName)
	case ".xlsx":
		return parseXLSX(filePath, sourceName)
	case ".ods":
		return parseODS(filePath, sourceName)
	case ".txt":
		return parseText(filePath, sourceName)
	default:
		return nil, fmt.Errorf("unsupported file format: %s", ext)
	}
}

func parsePDF(filePath, sourceName string) ([]models.Page, error) {
	f, err := os.Open(filePath)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	stat, err := f.Stat()
	if err != nil {
		return nil, err
	}

	reader, err := pdf.NewReader(f, stat.Size())
	if err != nil {
		return nil, err
	}

	var pages []models.Page
	numPages := reader.NumPage()
	for i := 1; i <= numPages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		pageText, err := page.GetPlainText(nil)
		if err != nil {
			// unreadable page, keep going with the rest of the file
			log.Debug().Err(err).Str("file", sourceName).Int("page", i).Msg("Skipping unreadable page")
			continue
		}
		if strings.TrimSpace(pageText) == "" {
			continue
		}
		pages = append(pages, models.Page{
			Number:     i,
			Text:       pageText,
			SourceFile: sourceName,
		})
	}
	return pages, nil
}

func parseDOCX(filePath, sourceName string) ([]models.Page, error) {
	r, err := docx.ReadDocxFile(filePath)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	content := r.Editable().GetContent()
	if strings.TrimSpace(content) == "" {
		return nil, nil
	}
	// DOCX has no page numbers, the whole document counts as page 1
	return []models.Page{{Number: 1, Text: content, SourceFile: sourceName}}, nil
}

func parseXLSX(filePath, sourceName string) ([]models.Page, error) {
	f, err := xlsx.OpenFile(filePath)
	if err != nil {
		return nil, err
	}

	var pages []models.Page
	for sheetNum, sheet := range f.Sheets {
		var text strings.Builder
		text.WriteString(fmt.Sprintf("Sheet: %s\n", sheet.Name))
		for _, row := range sheet.Rows {
			for _, cell := range row.Cells {
				text.WriteString(cell.String() + "\t")
			}
			text.WriteString("\n")
		}
		if strings.TrimSpace(text.String()) == "" {
			continue
		}
		pages = append(pages, models.Page{
			Number:     sheetNum + 1, // sheets stand in for pages
			Text:       text.String(),
			SourceFile: sourceName,
		})
	}
	return pages, nil
}

func parseODS(filePath, sourceName string) ([]models.Page, error) {
	f, err := excelize.OpenFile(filePath)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var pages []models.Page
	for sheetNum, sheetName := range f.GetSheetList() {
		rows, err := f.GetRows(sheetName)
		if err != nil {
			continue
		}
		var text strings.Builder
		text.WriteString(fmt.Sprintf("Sheet: %s\n", sheetName))
		for _, row := range rows {
			for _, cell := range row {
				text.WriteString(cell + "\t")
			}
			text.WriteString("\n")
		}
		if strings.TrimSpace(text.String()) == "" {
			continue
		}
		pages = append(pages, models.Page{
			Number:     sheetNum + 1,
			Text:       text.String(),
			SourceFile: sourceName,
		})
	}
	return pages, nil
}

func parseText(filePath, sourceName string) ([]models.Page, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(string(data)) == "" {
		return nil, nil
	}
	return []models.Page{{Number: 1, Text: string(data), SourceFile: sourceName}}, nil
}
