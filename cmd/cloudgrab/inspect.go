package main

import (
	"fmt"
	"strings"

	"github.com/hashicorp/go-multierror"
	"github.com/urfave/cli/v2"

	"github.com/cloudgrab/cloudgrab"
	"github.com/cloudgrab/cloudgrab/validate"
	"github.com/cloudgrab/cloudgrab/ytdlp"
)

func inspectCommand() *cli.Command {
	return &cli.Command{
		Name:      "inspect",
		Usage:     "show how a URL would be classified and downloaded, without downloading",
		ArgsUsage: "URL [URL ...]",
		Flags:     commonFlags(),
		Action: func(c *cli.Context) error {
			if c.NArg() == 0 {
				return cli.Exit("at least one URL is required", 2)
			}
			config, err := loadConfig(c)
			if err != nil {
				return err
			}
			var result error
			for _, url := range c.Args().Slice() {
				if err := inspectOne(config, url); err != nil {
					result = multierror.Append(result, multierror.Prefix(err, url+":"))
				}
			}
			return result
		},
	}
}

func inspectOne(config cloudgrab.Config, url string) error {
	match, err := cloudgrab.DefaultProviderRegistry.Match(url)
	if err != nil {
		// Still classify, so the user sees why it was refused.
		v, verr := validate.ValidateURL(url)
		fmt.Printf("url:       %s\n", url)
		fmt.Printf("kind:      %s\n", v.Kind)
		if verr != nil {
			fmt.Printf("refused:   %v\n", verr)
		}
		return fmt.Errorf("%w: %v", cloudgrab.ErrValidation, err)
	}
	source := match.Source

	fmt.Printf("url:       %s\n", source.URL())
	fmt.Printf("provider:  %s\n", match.ProviderName)
	fmt.Printf("kind:      %s\n", source.Kind())
	fmt.Printf("name:      %s\n", source.DisplayName())
	if !source.Kind().Downloadable() {
		fmt.Println("download:  not downloadable")
		return nil
	}

	outputDir, err := validate.Path(config.OutputDir)
	if err != nil {
		return fmt.Errorf("%w: %v", cloudgrab.ErrValidation, err)
	}
	quality, err := ytdlp.ParseQuality(config.Quality)
	if err != nil {
		return fmt.Errorf("%w: %v", cloudgrab.ErrValidation, err)
	}
	argv := ytdlp.Command(source, outputDir, quality)
	if argv, err = validate.CommandArgs(argv); err != nil {
		return fmt.Errorf("%w: %v", cloudgrab.ErrValidation, err)
	}
	fmt.Printf("command:   %s %s\n", ytdlp.ExecutableName, strings.Join(argv, " "))
	return nil
}
