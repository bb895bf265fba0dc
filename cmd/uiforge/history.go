package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"uiforge/internal/store"
)

func runHistory(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	meta, err := store.Open(cfg.Output.StorePath)
	if err != nil {
		return err
	}
	defer meta.Close()

	records, err := meta.List(context.Background(), historyLimit)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		fmt.Println("no generation records yet")
		return nil
	}

	for _, rec := range records {
		outcome := fmt.Sprintf("%d variant(s)", rec.VariantCount)
		if rec.Skipped {
			outcome = "skipped"
			if rec.Reason != "" {
				outcome += ": " + rec.Reason
			}
		}
		fmt.Printf("%s  %-24s %-12s %s\n",
			rec.GeneratedAt.Local().Format("2006-01-02 15:04"),
			rec.DerivedName, rec.Category, outcome)
	}
	return nil
}
