package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/passdy/intake/internal/address"
	"github.com/passdy/intake/internal/config"
	"github.com/passdy/intake/internal/form"
	"github.com/passdy/intake/internal/intake"
	"github.com/passdy/intake/internal/logger"
	"github.com/passdy/intake/internal/service"
	"github.com/urfave/cli/v2"
)

func main() {
	var cfg config.Config

	app := &cli.App{
		Name:  "intake",
		Usage: "Sell & donate order intake for Passdy",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to a TOML config file",
				EnvVars: []string{"INTAKE_CONFIG"},
			},
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Value:   config.DefaultLogLevel,
				Usage:   "Log level (debug, info, warn, error)",
				EnvVars: []string{"INTAKE_LOG_LEVEL"},
			},
			&cli.StringFlag{
				Name:    "address-url",
				Usage:   "Address service base URL (empty uses the demo directory)",
				EnvVars: []string{"INTAKE_ADDRESS_URL"},
			},
			&cli.StringFlag{
				Name:    "order-url",
				Usage:   "Order service base URL (empty accepts orders locally)",
				EnvVars: []string{"INTAKE_ORDER_URL"},
			},
		},
		Before: func(c *cli.Context) error {
			loaded, err := config.Load(c.String("config"))
			if err != nil {
				return err
			}
			if c.IsSet("log-level") {
				loaded.LogLevel = c.String("log-level")
			}
			if c.IsSet("address-url") {
				loaded.AddressURL = c.String("address-url")
			}
			if c.IsSet("order-url") {
				loaded.OrderURL = c.String("order-url")
			}
			cfg = loaded

			logger.Setup(logger.ParseLevel(cfg.LogLevel))
			return nil
		},
		Commands: []*cli.Command{
			{
				Name:  "options",
				Usage: "List the areas of one address tier",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "tier",
						Aliases:  []string{"t"},
						Usage:    "Address tier (province, district, ward)",
						Required: true,
					},
					&cli.Int64Flag{
						Name:    "parent",
						Aliases: []string{"p"},
						Usage:   "Parent area id (district and ward only)",
					},
				},
				Action: func(c *cli.Context) error {
					return runOptions(c, cfg)
				},
			},
			{
				Name:  "submit",
				Usage: "Fill the order form from an answers file and submit it",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "answers",
						Aliases:  []string{"a"},
						Usage:    "Path to a TOML answers file",
						Required: true,
					},
				},
				Action: func(c *cli.Context) error {
					return runSubmit(c, cfg)
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		slog.Error("application error", "error", err)
		os.Exit(1)
	}
}

func serviceOptions(cfg config.Config) []service.Option {
	return []service.Option{
		service.WithTimeout(cfg.RequestTimeout),
		service.WithMaxConcurrent(cfg.MaxConcurrentLookups),
		service.WithLogger(slog.Default()),
	}
}

func runOptions(c *cli.Context, cfg config.Config) error {
	tier, err := address.ParseTier(c.String("tier"))
	if err != nil {
		return err
	}
	parent := address.ID(c.Int64("parent"))
	if tier.HasParent() && !parent.IsSet() {
		return fmt.Errorf("--parent is required for %s", tier)
	}

	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	lookup := service.NewAddressClient(cfg.AddressURL, serviceOptions(cfg)...)
	options, err := address.Resolve(ctx, lookup, tier, parent)
	if err != nil {
		return err
	}

	for _, opt := range options {
		fmt.Fprintf(c.App.Writer, "%d\t%s\n", opt.Value, opt.Label)
	}
	return nil
}

func runSubmit(c *cli.Context, cfg config.Config) error {
	answers, err := intake.LoadAnswers(c.String("answers"))
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	opts := serviceOptions(cfg)
	controller, err := form.New(
		service.NewAddressClient(cfg.AddressURL, opts...),
		service.NewOrderClient(cfg.OrderURL, opts...),
		form.WithUser(cfg.FormUser()),
		form.WithLogger(slog.Default()),
	)
	if err != nil {
		return fmt.Errorf("create form: %w", err)
	}

	runner, err := intake.NewRunner(controller)
	if err != nil {
		return fmt.Errorf("create runner: %w", err)
	}

	result, err := runner.Run(ctx, answers)
	printResult(c, result)
	if err != nil && !errors.Is(err, form.ErrValidation) {
		return err
	}
	if err != nil {
		return cli.Exit("", 2)
	}
	return nil
}

func printResult(c *cli.Context, result intake.Result) {
	w := c.App.Writer
	fmt.Fprintf(w, "state: %s\n", result.State)
	fmt.Fprintf(w, "co2_saved_kg: %s\n", result.Metrics.CO2Kg.StringFixed(2))
	fmt.Fprintf(w, "water_saved_liters: %s\n", result.Metrics.WaterLiters.StringFixed(2))
	for _, msg := range result.Messages {
		fmt.Fprintln(w, msg)
	}
	if result.Receipt.HasData() {
		fmt.Fprintf(w, "receipt: %s\n", result.Receipt.Data)
	}
}
