package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/sagip-ops/sagip/app"
	"github.com/sagip-ops/sagip/config"
	"github.com/sagip-ops/sagip/core/model"
	"github.com/sagip-ops/sagip/infra/logger"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Start the service with a demo dataset loaded",
	RunE:  runSeeded,
}

func init() {
	rootCmd.AddCommand(seedCmd)
}

func runSeeded(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	svc, err := app.New(cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := svc.Close(); err != nil {
			logger.New("main").Errorf("service close: %v", err)
		}
	}()

	if err := seedDemoData(svc); err != nil {
		return fmt.Errorf("seed demo data: %w", err)
	}
	return svc.Run(ctx)
}

func seedDemoData(svc *app.Service) error {
	logg := logger.New("seed")

	incidents := []model.Incident{
		{
			ID:          "INC-001",
			Type:        "Flood",
			Severity:    model.SeverityHigh,
			Location:    "Barangay Bagong Silang",
			Coordinates: model.Coordinates{Lat: 14.6507, Lng: 121.1029},
		},
		{
			ID:          "INC-002",
			Type:        "Fire",
			Severity:    model.SeverityMedium,
			Location:    "Barangay Commonwealth",
			Coordinates: model.Coordinates{Lat: 14.6969, Lng: 121.0867},
		},
		{
			ID:          "INC-003",
			Type:        "Landslide",
			Severity:    model.SeverityLow,
			Location:    "Barangay Batasan Hills",
			Coordinates: model.Coordinates{Lat: 14.6850, Lng: 121.0960},
		},
	}
	for _, inc := range incidents {
		if _, err := svc.Engine.RegisterIncident(inc); err != nil {
			return err
		}
	}

	responders := []model.Responder{
		{
			ID:             "R-001",
			Name:           "Rescue Alpha",
			Agency:         "City DRRMO",
			Specialization: []string{"Flood Rescue", "Swift Water"},
			Status:         model.ResponderAvailable,
			Coordinates:    model.Coordinates{Lat: 14.6530, Lng: 121.1060},
			Workload:       0.30,
			ShiftWindow:    "06:00-18:00",
		},
		{
			ID:             "R-002",
			Name:           "Engine 7",
			Agency:         "Bureau of Fire Protection",
			Specialization: []string{"Fire Suppression"},
			Status:         model.ResponderStandby,
			Coordinates:    model.Coordinates{Lat: 14.6930, Lng: 121.0820},
			Workload:       0.45,
			ShiftWindow:    "00:00-12:00",
		},
		{
			ID:             "R-003",
			Name:           "Medic 2",
			Agency:         "City Health Office",
			Specialization: []string{"Medical", "Triage"},
			Status:         model.ResponderOffDuty,
			Coordinates:    model.Coordinates{Lat: 14.6700, Lng: 121.0900},
			Workload:       0.10,
			ShiftWindow:    "18:00-06:00",
		},
	}
	for _, r := range responders {
		svc.Engine.UpsertResponder(r)
	}

	facilities := []model.Facility{
		{
			ID:          "F-001",
			Name:        "Payatas Evacuation Center",
			Type:        "Evacuation",
			Hotline:     "122",
			Coordinates: model.Coordinates{Lat: 14.6512, Lng: 121.1040},
		},
		{
			ID:          "F-002",
			Name:        "Fairview General Hospital",
			Type:        "Medical",
			Hotline:     "911",
			Coordinates: model.Coordinates{Lat: 14.6990, Lng: 121.0700},
		},
	}
	for _, f := range facilities {
		svc.Engine.UpsertFacility(f)
	}

	logg.Infof("seeded %d incidents, %d responders, %d facilities",
		len(incidents), len(responders), len(facilities))
	return nil
}
