package main

import (
	"finance-manager/internal/models"

	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"
)

// completion describes the command line for shell completion. Install it
// with COMP_INSTALL=1 ledger.
func completion() *complete.Command {
	categories := make(predict.Set, 0, len(models.Selectable()))
	for _, c := range models.Selectable() {
		categories = append(categories, c.String())
	}

	session := func(extra map[string]complete.Predictor) map[string]complete.Predictor {
		flags := map[string]complete.Predictor{
			"u": predict.Nothing,
			"p": predict.Nothing,
		}
		for k, v := range extra {
			flags[k] = v
		}
		return flags
	}
	record := map[string]complete.Predictor{
		"title":    predict.Nothing,
		"date":     predict.Nothing,
		"amount":   predict.Nothing,
		"income":   predict.Nothing,
		"note":     predict.Nothing,
		"category": categories,
		"item":     predict.Nothing,
	}
	filters := map[string]complete.Predictor{
		"month":     predict.Nothing,
		"incomes":   predict.Nothing,
		"expenses":  predict.Nothing,
		"title":     predict.Nothing,
		"category":  categories,
		"from":      predict.Nothing,
		"to":        predict.Nothing,
		"min":       predict.Nothing,
		"max":       predict.Nothing,
		"items-min": predict.Nothing,
		"items-max": predict.Nothing,
	}
	with := func(base map[string]complete.Predictor, extra map[string]complete.Predictor) map[string]complete.Predictor {
		out := session(base)
		for k, v := range extra {
			out[k] = v
		}
		return out
	}

	return &complete.Command{
		Flags: map[string]complete.Predictor{
			"data":    predict.Files("*"),
			"backend": predict.Set{"xml", "sqlite"},
			"env":     predict.Files("*"),
		},
		Sub: map[string]*complete.Command{
			"register":       {Flags: session(nil)},
			"check-password": {},
			"note":           {Flags: session(map[string]complete.Predictor{"set": predict.Nothing, "show": predict.Nothing, "hide": predict.Nothing})},
			"list":           {Flags: with(filters, map[string]complete.Predictor{"daily": predict.Nothing})},
			"show":           {Flags: session(nil)},
			"add":            {Flags: session(record)},
			"edit":           {Flags: with(record, map[string]complete.Predictor{"remove-item": predict.Nothing})},
			"delete":         {Flags: session(nil)},
			"stats":          {Flags: session(map[string]complete.Predictor{"year": predict.Nothing, "month": predict.Nothing})},
			"export":         {Flags: with(filters, map[string]complete.Predictor{"format": predict.Set{"txt", "csv", "xml"}}), Args: predict.Files("*")},
			"import":         {Flags: session(map[string]complete.Predictor{"replace": predict.Nothing}), Args: predict.Files("*.xml")},
			"categories":     {},
		},
	}
}
