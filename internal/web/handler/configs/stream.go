package configs

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/paramset/paramset/internal/db/models"
	"github.com/paramset/paramset/internal/live"
)

const keepAliveInterval = 15 * time.Second

// Stream sends the config list as server-sent events: once on connect and
// again after every change to configs or execution results.
func (s *Service) Stream(c *fiber.Ctx) error {
	c.Set(fiber.HeaderContentType, "text/event-stream")
	c.Set(fiber.HeaderCacheControl, "no-cache")
	c.Set(fiber.HeaderConnection, "keep-alive")
	c.Set("X-Accel-Buffering", "no")

	ctx, cancel := context.WithCancel(context.Background())
	stream := s.store.FetchConfigEntries(ctx)

	c.Context().SetBodyStreamWriter(func(w *bufio.Writer) {
		defer cancel()
		defer stream.Close()

		if err := s.writeEvents(w, stream.C, keepAliveInterval); err != nil {
			log.Debug().Err(err).Msg("config stream closed")
		}
	})

	return nil
}

// writeEvents copies updates to w until updates is closed or a write fails,
// which is how a client disconnect shows up.
func (s *Service) writeEvents(w *bufio.Writer, updates <-chan live.Update[[]models.ConfigListEntry], keepAlive time.Duration) error {
	ticker := time.NewTicker(keepAlive)
	defer ticker.Stop()

	for {
		select {
		case u, ok := <-updates:
			if !ok {
				return nil
			}

			if err := s.writeEvent(w, u); err != nil {
				return err
			}
		case <-ticker.C:
			if _, err := w.WriteString(": keep-alive\n\n"); err != nil {
				return err
			}
		}

		if err := w.Flush(); err != nil {
			return err
		}
	}
}

func (s *Service) writeEvent(w *bufio.Writer, u live.Update[[]models.ConfigListEntry]) error {
	if u.Err != nil {
		_, err := fmt.Fprintf(w, "event: error\ndata: %q\n\n", u.Err.Error())
		return err
	}

	items, err := s.listItems(u.Value)
	if err != nil {
		_, werr := fmt.Fprintf(w, "event: error\ndata: %q\n\n", err.Error())
		return werr
	}

	data, err := json.Marshal(items)
	if err != nil {
		return err
	}

	_, err = fmt.Fprintf(w, "event: configs\ndata: %s\n\n", data)

	return err
}
