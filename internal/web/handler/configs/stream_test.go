package configs

import (
	"bufio"
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/paramset/paramset/internal/command"
	"github.com/paramset/paramset/internal/db/models"
	"github.com/paramset/paramset/internal/live"
	"github.com/paramset/paramset/internal/worker"
)

func TestWriteEvents(t *testing.T) {
	pool := worker.New(1, 1)
	t.Cleanup(pool.Close)

	s := &Service{surface: command.New(nil, nil, pool)}

	updates := make(chan live.Update[[]models.ConfigListEntry], 3)
	updates <- live.Update[[]models.ConfigListEntry]{Value: []models.ConfigListEntry{
		{Config: models.Config{ID: 4, Name: "billing"}},
	}}
	updates <- live.Update[[]models.ConfigListEntry]{Err: errors.New("database is locked")}
	updates <- live.Update[[]models.ConfigListEntry]{Value: []models.ConfigListEntry{{}}}
	close(updates)

	var buf bytes.Buffer
	w := bufio.NewWriter(&buf)

	require.NoError(t, s.writeEvents(w, updates, time.Hour))

	out := buf.String()
	assert.Contains(t, out, "event: configs\ndata: [{\"config\":{\"id\":4,\"name\":\"billing\",\"authority\":\"\"},\"href\":\"/api/configs/4\"}]\n\n")
	assert.Contains(t, out, "event: error\ndata: \"database is locked\"\n\n")
	assert.Contains(t, out, "invariant violation", "an entry without id is reported, not streamed")
}

func TestWriteEvents_KeepAlive(t *testing.T) {
	s := &Service{}

	updates := make(chan live.Update[[]models.ConfigListEntry])

	var buf bytes.Buffer
	w := bufio.NewWriter(&buf)

	done := make(chan error, 1)
	go func() {
		done <- s.writeEvents(w, updates, 10*time.Millisecond)
	}()

	time.Sleep(50 * time.Millisecond)
	close(updates)

	require.NoError(t, <-done)
	assert.Contains(t, buf.String(), ": keep-alive\n\n")
}
