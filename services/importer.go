package services

import (
	"bufio"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"foodgram/global"
	"foodgram/models"
	"foodgram/utils"

	"gorm.io/gorm/clause"
)

const importBatchSize = 500

type tagRow struct {
	Name  string `json:"name" validate:"required,max=200"`
	Color string `json:"color" validate:"required,hexcolor,max=7"`
	Slug  string `json:"slug" validate:"required,max=200,slug"`
}

type ingredientRow struct {
	Name string `json:"name" validate:"required,max=200"`
	Unit string `json:"measurement_unit" validate:"required,max=10"`
}

// ImportIngredients loads "name,measurement_unit" rows. Rows that already exist are skipped.
// It returns the number of rows inserted.
func ImportIngredients(ctx context.Context, r io.Reader) (int64, error) {
	v := utils.NewValidator()
	var rows []models.Ingredient
	err := readCSV(r, []string{"name", "measurement_unit"}, func(line int, rec []string) error {
		row := ingredientRow{Name: rec[0], Unit: rec[1]}
		if err := v.Struct(row); err != nil {
			return fmt.Errorf("line %d: %v", line, utils.ValidationMessages(err))
		}
		rows = append(rows, models.Ingredient{Name: row.Name, MeasurementUnit: row.Unit})
		return nil
	})
	if err != nil {
		return 0, err
	}
	return insertIgnoringConflicts(ctx, &rows, len(rows))
}

// ImportTags loads "name,color,slug" rows. Rows that already exist are skipped.
func ImportTags(ctx context.Context, r io.Reader) (int64, error) {
	v := utils.NewValidator()
	var rows []models.Tag
	err := readCSV(r, []string{"name", "color", "slug"}, func(line int, rec []string) error {
		row := tagRow{Name: rec[0], Color: strings.ToUpper(rec[1]), Slug: rec[2]}
		if err := v.Struct(row); err != nil {
			return fmt.Errorf("line %d: %v", line, utils.ValidationMessages(err))
		}
		rows = append(rows, models.Tag{Name: row.Name, Color: row.Color, Slug: row.Slug})
		return nil
	})
	if err != nil {
		return 0, err
	}
	return insertIgnoringConflicts(ctx, &rows, len(rows))
}

func insertIgnoringConflicts(ctx context.Context, rows any, n int) (int64, error) {
	if n == 0 {
		return 0, nil
	}
	res := global.Db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		CreateInBatches(rows, importBatchSize)
	if res.Error != nil {
		return 0, fmt.Errorf("import rows: %w", res.Error)
	}
	return res.RowsAffected, nil
}

// readCSV calls fn for every data record. A first record equal to header is skipped.
func readCSV(r io.Reader, header []string, fn func(line int, rec []string) error) error {
	br := bufio.NewReader(r)
	if bom, err := br.Peek(3); err == nil && string(bom) == "\xEF\xBB\xBF" {
		_, _ = br.Discard(3)
	}

	cr := csv.NewReader(br)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	for line := 1; ; line++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("read csv: %w", err)
		}
		if len(rec) == 1 && strings.TrimSpace(rec[0]) == "" {
			continue
		}
		for i := range rec {
			rec[i] = strings.TrimSpace(rec[i])
		}
		if line == 1 && isHeader(rec, header) {
			continue
		}
		if len(rec) != len(header) {
			return fmt.Errorf("line %d: expected %d columns, got %d", line, len(header), len(rec))
		}
		if err := fn(line, rec); err != nil {
			return err
		}
	}
}

func isHeader(rec, header []string) bool {
	if len(rec) != len(header) {
		return false
	}
	for i := range rec {
		if !strings.EqualFold(rec[i], header[i]) {
			return false
		}
	}
	return true
}
