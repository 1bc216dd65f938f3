package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"leadqual_backend/internal/events"
	"leadqual_backend/internal/scoring"
	"leadqual_backend/internal/scoring/service"
	"leadqual_backend/platform/config"
	"leadqual_backend/platform/db"
	"leadqual_backend/platform/logger"
	"leadqual_backend/platform/validator"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

type batchRef struct {
	batchID uuid.UUID
	offerID uuid.UUID
}

func main() {
	batchFlag := flag.String("batch", "", "batch id to rescore (defaults to every batch of -offer)")
	offerFlag := flag.String("offer", "", "offer id to score against")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log := logger.New(cfg.Env)
	log.Info("starting lead rescore", "batch", *batchFlag, "offer", *offerFlag)

	offerID, err := uuid.Parse(*offerFlag)
	if err != nil {
		fmt.Fprintln(os.Stderr, "-offer must be a valid identifier")
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := db.NewPool(ctx, cfg)
	if err != nil {
		log.Error("failed to connect to database", "error", err)
		panic("failed to connect to database: " + err.Error())
	}
	defer pool.Close()

	var refs []batchRef
	if *batchFlag != "" {
		batchID, err := uuid.Parse(*batchFlag)
		if err != nil {
			fmt.Fprintln(os.Stderr, "-batch must be a valid identifier")
			os.Exit(2)
		}
		refs = []batchRef{{batchID: batchID, offerID: offerID}}
	} else {
		refs, err = listOfferBatches(ctx, pool, offerID)
		if err != nil {
			log.Error("failed to list batches", "error", err)
			return
		}
	}
	if len(refs) == 0 {
		log.Info("no batches to rescore")
		return
	}

	classifier, closeClassifier, err := scoring.NewClassifier(ctx, cfg, log)
	if err != nil {
		log.Error("failed to initialize intent classifier", "error", err)
		panic("failed to initialize intent classifier: " + err.Error())
	}
	defer closeClassifier()

	eventBus := events.NewInMemoryBus(log)
	scoringModule := scoring.NewModule(pool, classifier, eventBus, nil, validator.New(), cfg, log)

	failed := 0
	for _, ref := range refs {
		res, err := scoringModule.Service().ScoreBatch(ctx, service.ScoreRequest{BatchID: ref.batchID, OfferID: ref.offerID})
		if err != nil {
			log.Error("rescore failed", "batchId", ref.batchID, "error", err)
			failed++
			continue
		}
		log.Info("batch rescored", "batchId", ref.batchID, "leads", len(res.Results))
	}
	eventBus.Wait()

	if failed > 0 {
		os.Exit(1)
	}
}

func listOfferBatches(ctx context.Context, pool *pgxpool.Pool, offerID uuid.UUID) ([]batchRef, error) {
	rows, err := pool.Query(ctx, `
		SELECT id, offer_id
		FROM batches
		WHERE offer_id = $1
		ORDER BY created_at ASC
	`, offerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	refs := make([]batchRef, 0)
	for rows.Next() {
		var ref batchRef
		if err := rows.Scan(&ref.batchID, &ref.offerID); err != nil {
			return nil, err
		}
		refs = append(refs, ref)
	}

	if rows.Err() != nil {
		return nil, rows.Err()
	}

	return refs, nil
}
