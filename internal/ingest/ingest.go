// Package ingest scrapes the router page on a schedule and reconciles the
// parsed devices into storage.
package ingest

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"devtrack/internal/discovery"
	"devtrack/internal/repo"
)

// Store is the storage side of a scrape cycle.
type Store interface {
	Reconcile(ctx context.Context, records []discovery.DeviceRecord, now time.Time) (repo.ReconcileStats, error)
}

type Ingestor struct {
	fetcher Fetcher
	store   Store
	log     *logrus.Entry
	now     func() time.Time
}

func NewIngestor(f Fetcher, s Store, log *logrus.Entry) *Ingestor {
	return &Ingestor{fetcher: f, store: s, log: log, now: time.Now}
}

// Result describes one scrape cycle.
type Result struct {
	Devices    int
	TableFound bool
	Stats      repo.ReconcileStats
}

// RunOnce fetches the page, parses it and reconciles the devices.
// A page without the discovery table counts as zero devices.
func (i *Ingestor) RunOnce(ctx context.Context) (Result, error) {
	i.log.Debug("fetching router page")
	body, err := i.fetcher.Fetch(ctx)
	if err != nil {
		return Result{}, err
	}
	defer body.Close()

	devices, err := discovery.Parse(body)
	res := Result{TableFound: true}
	switch {
	case errors.Is(err, discovery.ErrTableNotFound):
		i.log.Warn("could not find device table")
		res.TableFound = false
	case err != nil:
		return Result{}, err
	}
	res.Devices = len(devices)

	now := i.now()
	st, err := i.store.Reconcile(ctx, devices, now)
	if err != nil {
		return res, fmt.Errorf("reconcile: %w", err)
	}
	res.Stats = st

	i.log.WithFields(logrus.Fields{
		"devices":  res.Devices,
		"inserted": st.Inserted,
		"updated":  st.Updated,
	}).Infof("updated %d devices at %s", res.Devices, now.Format(time.RFC3339))
	return res, nil
}
