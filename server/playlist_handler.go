package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"Tunebox/logger"
	"Tunebox/model"

	"github.com/gorilla/mux"
)

type createPlaylistRequest struct {
	Name  string       `json:"name"`
	Items []model.Song `json:"items"`
}

// appendRequest 支持两种请求体：songId 引用已有歌曲，或直接内联歌曲字段
type appendRequest struct {
	SongID string `json:"songId"`
	Name   string `json:"name"`
	Artist string `json:"artist"`
	Genre  string `json:"genre"`
	File   string `json:"file"`
	Image  string `json:"image"`
}

func (a appendRequest) inline() bool {
	return a.Name != "" || a.Artist != "" || a.Genre != "" || a.File != "" || a.Image != ""
}

// GetPlaylistsHandler returns every playlist with its items.
func (h *APIHandler) GetPlaylistsHandler(w http.ResponseWriter, r *http.Request) {
	playlists, err := h.playlistRepo.ListPlaylists(r.Context())
	if err != nil {
		writeError(w, err, "Failed to list playlists")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"playlists": playlists})
}

func (h *APIHandler) GetPlaylistHandler(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["playlistId"]
	playlist, err := h.playlistRepo.GetPlaylistByID(r.Context(), id)
	if err != nil {
		writeError(w, err, "Failed to get playlist")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"playlist": playlist})
}

// CreatePlaylistHandler 创建歌单，可带初始歌曲
func (h *APIHandler) CreatePlaylistHandler(w http.ResponseWriter, r *http.Request) {
	var req createPlaylistRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err, "Invalid request body")
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		writeError(w, fmt.Errorf("%w: name is required", ErrValidation), "Invalid request body")
		return
	}

	items := make([]model.Song, 0, len(req.Items))
	for _, item := range req.Items {
		if item.ID == "" {
			item.ID = model.NewID()
		}
		items = append(items, item)
	}

	playlist := &model.Playlist{Name: req.Name, Items: items}
	if err := h.playlistRepo.CreatePlaylist(r.Context(), playlist); err != nil {
		writeError(w, err, "Failed to create playlist")
		return
	}

	logger.Info("Playlist created", logger.String("playlistId", playlist.ID), logger.Int("items", len(items)))
	writeJSON(w, http.StatusOK, map[string]string{
		"message": "playlist created successfully",
		"id":      playlist.ID,
	})
}

// AppendSongHandler 向歌单追加一首歌
func (h *APIHandler) AppendSongHandler(w http.ResponseWriter, r *http.Request) {
	playlistID := mux.Vars(r)["playlistId"]

	var req appendRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err, "Invalid request body")
		return
	}

	var song model.Song
	switch {
	case req.SongID != "":
		stored, err := h.songRepo.GetSongByID(r.Context(), req.SongID)
		if err != nil {
			writeError(w, err, "Failed to find song")
			return
		}
		song = *stored
	case req.inline():
		song = model.Song{
			ID:     model.NewID(),
			Name:   req.Name,
			Artist: req.Artist,
			Genre:  req.Genre,
			File:   req.File,
			Image:  req.Image,
		}
	default:
		writeError(w, fmt.Errorf("%w: songId or song fields are required", ErrValidation), "Invalid request body")
		return
	}

	playlist, err := h.playlistRepo.AppendItem(r.Context(), playlistID, song)
	if err != nil {
		writeError(w, err, "Failed to add song to playlist")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message":  "song added successfully",
		"playlist": playlist,
	})
}

func decodeBody(r *http.Request, v interface{}) error {
	err := json.NewDecoder(io.LimitReader(r.Body, 1<<20)).Decode(v)
	if errors.Is(err, io.EOF) {
		return fmt.Errorf("%w: empty request body", ErrValidation)
	}
	if err != nil {
		return fmt.Errorf("%w: %v", ErrValidation, err)
	}
	return nil
}
