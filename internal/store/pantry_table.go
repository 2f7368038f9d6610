package store

import (
	"database/sql"
	"strings"

	"pantrysync/internal/model"
)

func pantryTable() table[model.PantryItem] {
	return table[model.PantryItem]{
		name: "pantry_items",
		columns: []string{
			"id", "barcode", "name", "brand", "image_url", "thumb_url",
			"quantity", "unit", "packaging_size",
			"expiry_date", "purchase_date", "open_date", "storage_location",
			"nutri_score", "nova_group", "eco_score", "allergens", "labels",
			"energy_kcal", "fat", "saturated_fat", "carbohydrates",
			"sugars", "fiber", "proteins", "salt",
			"updated_at", "is_synced",
		},
		args:  pantryArgs,
		scan:  scanPantry,
		where: pantryWhere,
	}
}

func pantryArgs(p model.PantryItem, synced bool) ([]any, error) {
	allergens, err := marshalTags(p.Health.Allergens)
	if err != nil {
		return nil, err
	}
	labels, err := marshalTags(p.Health.Labels)
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
		p.Health.NutriScore, p.Health.NovaGroup, p.Health.EcoScore, allergens, labels,
		nullFloat(p.Nutrition.EnergyKcal), nullFloat(p.Nutrition.Fat),
		nullFloat(p.Nutrition.SaturatedFat), nullFloat(p.Nutrition.Carbohydrates),
		nullFloat(p.Nutrition.Sugars), nullFloat(p.Nutrition.Fiber),
		nullFloat(p.Nutrition.Proteins), nullFloat(p.Nutrition.Salt),
		p.UpdatedAt, synced,
	}, nil
}

func scanPantry(row rowScanner) (model.PantryItem, error) {
	var (
		p         model.PantryItem
		openDate  sql.NullString
		location  string
		allergens string
		labels    string
		nutrition [8]sql.NullFloat64
	)

	err := row.Scan(
		&p.ID, &p.Barcode, &p.Name, &p.Brand, &p.ImageURL, &p.ThumbURL,
		&p.Quantity, &p.Unit, &p.PackagingSize,
		&p.ExpiryDate, &p.PurchaseDate, &openDate, &location,
		&p.Health.NutriScore, &p.Health.NovaGroup, &p.Health.EcoScore, &allergens, &labels,
		&nutrition[0], &nutrition[1], &nutrition[2], &nutrition[3],
		&nutrition[4], &nutrition[5], &nutrition[6], &nutrition[7],
		&p.UpdatedAt, &p.IsSynced,
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

	if p.Health.Allergens, err = unmarshalTags(allergens); err != nil {
		return model.PantryItem{}, err
	}
	if p.Health.Labels, err = unmarshalTags(labels); err != nil {
		return model.PantryItem{}, err
	}

	p.Nutrition.EnergyKcal = floatPtr(nutrition[0])
	p.Nutrition.Fat = floatPtr(nutrition[1])
	p.Nutrition.SaturatedFat = floatPtr(nutrition[2])
	p.Nutrition.Carbohydrates = floatPtr(nutrition[3])
	p.Nutrition.Sugars = floatPtr(nutrition[4])
	p.Nutrition.Fiber = floatPtr(nutrition[5])
	p.Nutrition.Proteins = floatPtr(nutrition[6])
	p.Nutrition.Salt = floatPtr(nutrition[7])

	return p, nil
}

func pantryWhere(f Filter) (string, []any) {
	var conds []string
	var args []any

	if f.Query != "" {
		if isNumeric(f.Query) {
			conds = append(conds, "barcode = ?")
			args = append(args, f.Query)
		} else {
			conds = append(conds, `name LIKE ? ESCAPE '\'`)
			args = append(args, "%"+escapeLike(f.Query)+"%")
		}
	}
	if f.Location != nil {
		conds = append(conds, "storage_location = ?")
		args = append(args, string(*f.Location))
	}
	if f.ExpiringWithinDays != nil {
		// Items without an expiry date never match.
		cutoff := model.Today().AddDays(*f.ExpiringWithinDays)
		conds = append(conds, "expiry_date <> '' AND expiry_date <= ?")
		args = append(args, cutoff.String())
	}

	return strings.Join(conds, " AND "), args
}
