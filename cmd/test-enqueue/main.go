// Command test-enqueue plays a bracket story from the data directory
// straight through and broadcasts the playback events, so the stats worker
// and API can be exercised without a terminal.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/jwebster45206/bracket-wrap/internal/config"
	"github.com/jwebster45206/bracket-wrap/internal/logger"
	"github.com/jwebster45206/bracket-wrap/internal/services"
	"github.com/jwebster45206/bracket-wrap/internal/services/events"
	"github.com/jwebster45206/bracket-wrap/internal/storage"
	"github.com/jwebster45206/bracket-wrap/pkg/bracket"
	"github.com/jwebster45206/bracket-wrap/pkg/slides"
)

func main() {
	bracketID := flag.String("bracket", "chalk-walk", "bracket id under the data directory")
	groupID := flag.String("group", "", "optional group id")
	share := flag.Int("share", -1, "0-based slide index to share, -1 for none")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}
	logr := logger.Setup(cfg)

	redisSvc, err := services.NewRedisService(cfg.RedisURL, logr)
	if err != nil {
		log.Fatal("Invalid Redis configuration:", err)
	}
	defer func() { _ = redisSvc.Close() }()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := redisSvc.Ping(ctx); err != nil {
		log.Fatal("Failed to connect to Redis:", err)
	}
	fmt.Println("Connected to Redis successfully!")

	data, err := storage.NewFileStore(cfg.DataDir, logr).Slides(ctx, *bracketID, *groupID, 0)
	if err != nil {
		log.Fatal("Failed to load slides:", err)
	}
	reg, err := slides.Compose(data)
	if err != nil {
		log.Fatal("Failed to compose story:", err)
	}

	b := events.NewBroadcaster(redisSvc.GetClient(), logr)
	session := uuid.New()

	must(b.PublishStoryStarted(ctx, session, *bracketID, reg.Len()))
	for i := 0; i < reg.Len(); i++ {
		s, _ := reg.At(i)
		if i > 0 {
			must(b.PublishSlideChanged(ctx, session, *bracketID, i-1, i, s.ID()))
		}
		if i == *share && s.ShareID() != "" {
			must(b.PublishSlideShared(ctx, session, *bracketID, s.ID(), bracket.ShareURL(s.ShareID())))
		}
	}
	must(b.PublishStoryFinished(ctx, session, *bracketID))

	fmt.Printf("Broadcast %d slides for %s (session %s)\n", reg.Len(), *bracketID, session)
}

func must(err error) {
	if err != nil {
		log.Fatal(err)
	}
}
