package remote

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"pantrysync/internal/model"

	"github.com/jackc/pgx/v5/pgxpool"
)

func remotePantryTable() pgTable[model.PantryItem] {
	return pgTable[model.PantryItem]{
		name: "pantry_items",
		columns: []string{
			"id", "barcode", "name", "brand", "image_url", "thumb_url",
			"quantity", "unit", "packaging_size",
			"expiry_date", "purchase_date", "open_date", "storage_location",
			"nutri_score", "nova_group", "eco_score", "allergens", "labels",
			"energy_kcal", "fat", "saturated_fat", "carbohydrates",
			"sugars", "fiber", "proteins", "salt",
			"updated_at",
		},
		args: pantryArgs,
		scan: scanPantry,
	}
}

func pantryArgs(p model.PantryItem) ([]any, error) {
	allergens, err := json.Marshal(p.Health.Allergens)
	if err != nil {
		return nil, err
	}
	labels, err := json.Marshal(p.Health.Labels)
	if err != nil {
		return nil, err
	}

	var openDate any
	if p.OpenDate != nil {
		openDate = p.OpenDate.String()
	}

	return []any{
		p.ID, p.Barcode, p.Name, p.Brand, p.ImageURL, p.ThumbURL,
		p.Quantity, p.Unit, p.PackagingSize,
		p.ExpiryDate.String(), p.PurchaseDate.String(), openDate, string(p.Location),
		p.Health.NutriScore, p.Health.NovaGroup, p.Health.EcoScore,
		string(allergens), string(labels),
		p.Nutrition.EnergyKcal, p.Nutrition.Fat,
		p.Nutrition.SaturatedFat, p.Nutrition.Carbohydrates,
		p.Nutrition.Sugars, p.Nutrition.Fiber,
		p.Nutrition.Proteins, p.Nutrition.Salt,
		p.UpdatedAt,
	}, nil
}

func scanPantry(row rowScanner) (model.PantryItem, error) {
	var (
		p         model.PantryItem
		openDate  sql.NullString
		location  string
		allergens string
		labels    string
	)

	err := row.Scan(
		&p.ID, &p.Barcode, &p.Name, &p.Brand, &p.ImageURL, &p.ThumbURL,
		&p.Quantity, &p.Unit, &p.PackagingSize,
		&p.ExpiryDate, &p.PurchaseDate, &openDate, &location,
		&p.Health.NutriScore, &p.Health.NovaGroup, &p.Health.EcoScore,
		&allergens, &labels,
		&p.Nutrition.EnergyKcal, &p.Nutrition.Fat,
		&p.Nutrition.SaturatedFat, &p.Nutrition.Carbohydrates,
		&p.Nutrition.Sugars, &p.Nutrition.Fiber,
		&p.Nutrition.Proteins, &p.Nutrition.Salt,
		&p.UpdatedAt,
	)
	if err != nil {
		return model.PantryItem{}, err
	}

	if openDate.Valid {
		d, err := model.ParseDate(openDate.String)
		if err != nil {
			return model.PantryItem{}, err
		}
		p.OpenDate = &d
	}
	p.Location = model.StorageLocation(location)

	if err := unmarshalTags(allergens, &p.Health.Allergens); err != nil {
		return model.PantryItem{}, err
	}
	if err := unmarshalTags(labels, &p.Health.Labels); err != nil {
		return model.PantryItem{}, err
	}

	// Records fetched from the server are authoritative by definition.
	p.IsSynced = true

	return p, nil
}

func remoteInsightTable() pgTable[model.InsightItem] {
	return pgTable[model.InsightItem]{
		name: "insight_items",
		columns: []string{
			"id", "name", "image_url", "quantity", "unit",
			"status", "action_date",
			"nutri_score", "nova_group", "eco_score", "allergens", "labels",
			"updated_at",
		},
		args: insightArgs,
		scan: scanInsight,
	}
}

func insightArgs(i model.InsightItem) ([]any, error) {
	allergens, err := json.Marshal(i.Health.Allergens)
	if err != nil {
		return nil, err
	}
	labels, err := json.Marshal(i.Health.Labels)
	if err != nil {
		return nil, err
	}

	return []any{
		i.ID, i.Name, i.ImageURL, i.Quantity, i.Unit,
		string(i.Status), i.ActionDate.String(),
		i.Health.NutriScore, i.Health.NovaGroup, i.Health.EcoScore,
		string(allergens), string(labels),
		i.UpdatedAt,
	}, nil
}

func scanInsight(row rowScanner) (model.InsightItem, error) {
	var (
		i         model.InsightItem
		status    string
		allergens string
		labels    string
	)

	err := row.Scan(
		&i.ID, &i.Name, &i.ImageURL, &i.Quantity, &i.Unit,
		&status, &i.ActionDate,
		&i.Health.NutriScore, &i.Health.NovaGroup, &i.Health.EcoScore,
		&allergens, &labels,
		&i.UpdatedAt,
	)
	if err != nil {
		return model.InsightItem{}, err
	}

	i.Status = model.InsightStatus(status)

	if err := unmarshalTags(allergens, &i.Health.Allergens); err != nil {
		return model.InsightItem{}, err
	}
	if err := unmarshalTags(labels, &i.Health.Labels); err != nil {
		return model.InsightItem{}, err
	}

	i.IsSynced = true

	return i, nil
}

func unmarshalTags(s string, dst *[]string) error {
	if s == "" || s == "null" {
		*dst = nil
		return nil
	}
	return json.Unmarshal([]byte(s), dst)
}

// EnsureSchema creates the remote record tables if they do not exist.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	const schema = `
	CREATE TABLE IF NOT EXISTS pantry_items (
		user_id          TEXT NOT NULL,
		id               TEXT NOT NULL,
		barcode          TEXT NOT NULL DEFAULT '',
		name             TEXT NOT NULL DEFAULT '',
		brand            TEXT NOT NULL DEFAULT '',
		image_url        TEXT NOT NULL DEFAULT '',
		thumb_url        TEXT NOT NULL DEFAULT '',
		quantity         DOUBLE PRECISION NOT NULL DEFAULT 0,
		unit             TEXT NOT NULL DEFAULT '',
		packaging_size   TEXT NOT NULL DEFAULT '',
		expiry_date      TEXT NOT NULL DEFAULT '',
		purchase_date    TEXT NOT NULL DEFAULT '',
		open_date        TEXT,
		storage_location TEXT NOT NULL DEFAULT 'PANTRY',
		nutri_score      TEXT NOT NULL DEFAULT '',
		nova_group       INTEGER NOT NULL DEFAULT 0,
		eco_score        TEXT NOT NULL DEFAULT '',
		allergens        TEXT NOT NULL DEFAULT 'null',
		labels           TEXT NOT NULL DEFAULT 'null',
		energy_kcal      DOUBLE PRECISION,
		fat              DOUBLE PRECISION,
		saturated_fat    DOUBLE PRECISION,
		carbohydrates    DOUBLE PRECISION,
		sugars           DOUBLE PRECISION,
		fiber            DOUBLE PRECISION,
		proteins         DOUBLE PRECISION,
		salt             DOUBLE PRECISION,
		updated_at       BIGINT NOT NULL,
		PRIMARY KEY (user_id, id)
	);

	CREATE TABLE IF NOT EXISTS insight_items (
		user_id     TEXT NOT NULL,
		id          TEXT NOT NULL,
		name        TEXT NOT NULL DEFAULT '',
		image_url   TEXT NOT NULL DEFAULT '',
		quantity    DOUBLE PRECISION NOT NULL DEFAULT 0,
		unit        TEXT NOT NULL DEFAULT '',
		status      TEXT NOT NULL,
		action_date TEXT NOT NULL DEFAULT '',
		nutri_score TEXT NOT NULL DEFAULT '',
		nova_group  INTEGER NOT NULL DEFAULT 0,
		eco_score   TEXT NOT NULL DEFAULT '',
		allergens   TEXT NOT NULL DEFAULT 'null',
		labels      TEXT NOT NULL DEFAULT 'null',
		updated_at  BIGINT NOT NULL,
		PRIMARY KEY (user_id, id)
	);
	`

	if _, err := pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("failed to create remote schema: %w", err)
	}
	return nil
}
