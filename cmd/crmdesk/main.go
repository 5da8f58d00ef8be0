package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/olekukonko/tablewriter"
	"go.uber.org/zap"

	"github.com/crmdesk/crmdesk/config"
	"github.com/crmdesk/crmdesk/internal/app"
	"github.com/crmdesk/crmdesk/internal/crm"
)

var (
	h          = flag.Bool("h", false, "help usage")
	conffile   = flag.String("c", "", "config yaml file")
	initdb     = flag.Bool("initdb", false, "drop and recreate all tables")
	seed       = flag.Bool("seed", false, "create the admin account and demo customers")
	showReport = flag.Bool("report", false, "print the customer report and exit")
)

func main() {
	flag.Parse()
	if *h {
		flag.Usage()
		return
	}

	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "crmdesk:", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.LoadConfig(*conffile)
	if err != nil {
		return err
	}

	application := app.NewApplication(cfg)
	if err := application.Init(cfg); err != nil {
		return err
	}
	defer application.Release()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if *initdb {
		application.InitDb()
		zap.S().Info("database initialized")
	}
	if *seed {
		if err := application.SeedDemoData(ctx); err != nil {
			return err
		}
	}
	if *initdb || *seed {
		return nil
	}

	if *showReport {
		report, err := application.CRM().Report(ctx)
		if err != nil {
			return err
		}
		return printReport(os.Stdout, report)
	}

	srv, err := application.NewWebServer()
	if err != nil {
		return err
	}
	return srv.Start(ctx)
}

func printReport(w io.Writer, report *crm.Report) error {
	fmt.Fprintf(w, "Total customers: %d\n", report.TotalCustomers)

	table := tablewriter.NewWriter(w)
	table.Header("Company", "Customers")
	for _, row := range report.ByCompany {
		company := row.Company
		if company == "" {
			company = "(none)"
		}
		if err := table.Append([]string{company, strconv.FormatInt(row.Total, 10)}); err != nil {
			return err
		}
	}
	if err := table.Render(); err != nil {
		return err
	}

	s := report.Orders
	fmt.Fprintf(w, "Orders: %d  sum %.2f  mean %.2f  median %.2f\n", s.Count, s.Sum, s.Mean, s.Median)
	return nil
}
