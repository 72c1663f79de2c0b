package career

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/tyler180/hoops-gamelogs/internal/config"
	"github.com/tyler180/hoops-gamelogs/internal/fetch"
	"github.com/tyler180/hoops-gamelogs/internal/players"
)

// Event is the Lambda payload. Unset fields fall back to env.
type Event struct {
	Player     string `json:"player"`
	FromSeason *int   `json:"from_season"`
	ToSeason   *int   `json:"to_season"`
	Upload     *bool  `json:"upload"`
	Remote     string `json:"remote"`      // dynamodb | postgres | lake
	WriteFiles *bool  `json:"write_files"` // csv + txt under OUTPUT_DIR (/tmp on Lambda)
}

type Raw = json.RawMessage

type Response struct {
	OK        bool     `json:"ok"`
	RunID     string   `json:"run_id,omitempty"`
	PlayerID  int64    `json:"player_id,omitempty"`
	Player    string   `json:"player,omitempty"`
	Games     int      `json:"games"`
	Appended  int      `json:"appended"`
	Files     []string `json:"files,omitempty"`
	Message   string   `json:"message,omitempty"`
	UploadErr string   `json:"upload_error,omitempty"`
}

// Handler serves one Lambda invocation. It does not touch process env, so
// warm containers never carry one event's settings into the next.
type Handler struct {
	Config  config.Config
	Players *players.Directory
	// NewService lets tests swap the source and stores.
	NewService func(cfg config.Config, dir *players.Directory) (*Service, error)
}

func (h *Handler) Handle(ctx context.Context, raw Raw) (*Response, error) {
	var e Event
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &e); err != nil {
			return nil, fmt.Errorf("decode event: %w", err)
		}
	}
	if e.Player == "" {
		return &Response{OK: false, Message: "player is required"}, nil
	}

	svc, err := h.NewService(h.Config, h.Players)
	if err != nil {
		return nil, err
	}
	writeFiles := config.PickBool(e.WriteFiles, false)
	req := Request{
		Name:       e.Player,
		FromSeason: config.PickInt(e.FromSeason, 0),
		ToSeason:   config.PickInt(e.ToSeason, 0),
		WriteCSV:   writeFiles,
		WriteText:  writeFiles,
		Upload:     config.PickBool(e.Upload, true),
		Remote:     config.PickStr(e.Remote, h.Config.Remote),
		OutputDir:  h.Config.OutputDir,
	}

	res, err := svc.Run(ctx, req)
	switch {
	case errors.Is(err, ErrPlayerNotFound), errors.Is(err, fetch.ErrNoData):
		return &Response{OK: false, Message: err.Error()}, nil
	case err != nil:
		return nil, err
	}

	resp := &Response{
		OK:       res.UploadErr == nil,
		RunID:    res.RunID,
		PlayerID: res.Player.ID,
		Player:   res.Player.FullName,
		Games:    len(res.Records),
		Appended: res.Upload.Appended,
		Files:    res.Files,
	}
	if res.UploadErr != nil {
		resp.UploadErr = res.UploadErr.Error()
	}
	return resp, nil
}
