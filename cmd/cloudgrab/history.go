package main

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/cloudgrab/cloudgrab/internal/session"
)

func historyCommand() *cli.Command {
	return &cli.Command{
		Name:  "history",
		Usage: "show previously downloaded URLs",
		Flags: append(commonFlags(),
			&cli.IntFlag{
				Name:    "limit",
				Aliases: []string{"n"},
				Value:   20,
				Usage:   "show at most `N` entries (0 for all)",
			},
			&cli.BoolFlag{
				Name:  "files",
				Usage: "also list the files each download produced",
			},
		),
		Action: func(c *cli.Context) error {
			config, err := loadConfig(c)
			if err != nil {
				return err
			}
			history, err := openHistory(config.HistoryPath)
			if err != nil {
				return err
			}
			defer history.Close()

			records, err := history.ListOperations(c.Int("limit"))
			if err != nil {
				return err
			}
			for _, record := range records {
				printRecord(record, c.Bool("files"))
			}
			return nil
		},
	}
}

func printRecord(record session.OperationRecord, withFiles bool) {
	status := "failed"
	if record.Completed {
		status = "ok"
	}
	fmt.Printf("%s  %-6s  %-12s  %s\n", record.AddedAt.Format("2006-01-02 15:04"), status, record.Kind, record.URL)
	if record.Error != "" {
		fmt.Printf("%20s  error: %s\n", "", record.Error)
	}
	if withFiles {
		for _, f := range record.Files {
			fmt.Printf("%20s  %s\n", "", f)
		}
	}
}
