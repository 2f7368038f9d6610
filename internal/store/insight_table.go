package store

import (
	"strings"

	"pantrysync/internal/model"
)

func insightTable() table[model.InsightItem] {
	return table[model.InsightItem]{
		name: "insight_items",
		columns: []string{
			"id", "name", "image_url", "quantity", "unit",
			"status", "action_date",
			"nutri_score", "nova_group", "eco_score", "allergens", "labels",
			"updated_at", "is_synced",
		},
		args:  insightArgs,
		scan:  scanInsight,
		where: insightWhere,
	}
}

func insightArgs(i model.InsightItem, synced bool) ([]any, error) {
	allergens, err := marshalTags(i.Health.Allergens)
	if err != nil {
		return nil, err
	}
	labels, err := marshalTags(i.Health.Labels)
	if err != nil {
		return nil, err
	}

	return []any{
		i.ID, i.Name, i.ImageURL, i.Quantity, i.Unit,
		string(i.Status), i.ActionDate.String(),
		i.Health.NutriScore, i.Health.NovaGroup, i.Health.EcoScore, allergens, labels,
		i.UpdatedAt, synced,
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
		&i.Health.NutriScore, &i.Health.NovaGroup, &i.Health.EcoScore, &allergens, &labels,
		&i.UpdatedAt, &i.IsSynced,
	)
	if err != nil {
		return model.InsightItem{}, err
	}

	i.Status = model.InsightStatus(status)

	if i.Health.Allergens, err = unmarshalTags(allergens); err != nil {
		return model.InsightItem{}, err
	}
	if i.Health.Labels, err = unmarshalTags(labels); err != nil {
		return model.InsightItem{}, err
	}

	return i, nil
}

func insightWhere(f Filter) (string, []any) {
	var conds []string
	var args []any

	if f.Query != "" {
		conds = append(conds, `name LIKE ? ESCAPE '\'`)
		args = append(args, "%"+escapeLike(f.Query)+"%")
	}
	if f.Status != nil {
		conds = append(conds, "status = ?")
		args = append(args, string(*f.Status))
	}

	return strings.Join(conds, " AND "), args
}
