package web

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/verte-zerg/pvptrainer/internal/answer"
	"github.com/verte-zerg/pvptrainer/internal/cp"
	"github.com/verte-zerg/pvptrainer/internal/dex"
	"github.com/verte-zerg/pvptrainer/internal/model"
)

const (
	maxCPNoCapLabel = "Max"
	uploadedDataset = "upload"
	maxCPLimit      = math.MaxInt32
)

// Payload types for /get_question.
const (
	questionTypeQuestion = "question"
	questionTypeDisabled = "disabled"
	questionTypeEmpty    = "empty"
)

func (s *Server) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) index(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if _, err := w.Write(indexPage); err != nil {
		s.log.Warn("failed to write page", "error", err)
	}
}

type sidebarResponse struct {
	PokedexFilename string   `json:"pokedex_filename"`
	MovesFilename   string   `json:"moves_filename"`
	MaxCP           any      `json:"pokemon_max_cp"`
	Dataset         string   `json:"dataset"`
	DatasetFiles    []string `json:"dataset_files"`
}

func (s *Server) sidebarData(w http.ResponseWriter, r *http.Request) {
	state, err := s.loadState(r.Context())
	if err != nil {
		s.internalError(w, "failed to load session", err)
		return
	}
	files := []string{}
	if s.cfg.DatasetsDir != "" {
		names, err := dex.ListDatasets(s.cfg.DatasetsDir)
		switch {
		case err == nil:
			files = names
		case errors.Is(err, os.ErrNotExist):
		default:
			s.log.Warn("failed to list datasets", "dir", s.cfg.DatasetsDir, "error", err)
		}
	}
	writeJSON(w, http.StatusOK, sidebarResponse{
		PokedexFilename: s.cfg.Files.Species,
		MovesFilename:   s.cfg.Files.Moves,
		MaxCP:           maxCPValue(state.MaxCP),
		Dataset:         state.Dataset,
		DatasetFiles:    files,
	})
}

type updateMaxCPRequest struct {
	MaxCP json.RawMessage `json:"max_cp"`
}

func (s *Server) updateMaxCP(w http.ResponseWriter, r *http.Request) {
	var req updateMaxCPRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	maxCP, err := parseMaxCP(req.MaxCP)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	ctx := r.Context()
	state, err := s.loadState(ctx)
	if err != nil {
		s.internalError(w, "failed to load session", err)
		return
	}
	state.MaxCP = maxCP
	if err := s.saveState(ctx, state); err != nil {
		s.internalError(w, "failed to save session", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "new_max_cp": maxCPValue(maxCP)})
}

type loadDatasetRequest struct {
	Dataset string `json:"dataset_filepath"`
}

func (s *Server) loadDataset(w http.ResponseWriter, r *http.Request) {
	var req loadDatasetRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	path, err := dex.DatasetPath(s.cfg.DatasetsDir, req.Dataset)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	roster, err := dex.LoadRosterFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		writeError(w, http.StatusNotFound, fmt.Sprintf("dataset %s not found", req.Dataset))
		return
	case err != nil:
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := s.replaceRoster(r, roster, req.Dataset); err != nil {
		s.internalError(w, "failed to save session", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": fmt.Sprintf("Dataset %s loaded successfully!", req.Dataset),
	})
}

func (s *Server) uploadDataset(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxUploadSize))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "dataset too large")
			return
		}
		writeError(w, http.StatusBadRequest, "failed to read upload")
		return
	}
	roster, err := dex.LoadRoster(bytes.NewReader(body))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	name := strings.TrimSpace(r.URL.Query().Get("name"))
	if name == "" {
		name = uploadedDataset
	}
	if err := s.replaceRoster(r, roster, name); err != nil {
		s.internalError(w, "failed to save session", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": fmt.Sprintf("Dataset %s loaded successfully!", name),
		"entries": len(roster),
	})
}

func (s *Server) replaceRoster(r *http.Request, roster model.Roster, name string) error {
	ctx := r.Context()
	state, err := s.loadState(ctx)
	if err != nil {
		return err
	}
	state.Roster = roster
	state.Dataset = name
	state.Question = model.Question{}
	state.HasQuestion = false
	return s.saveState(ctx, state)
}

type questionRequest struct {
	AttackComparison *float64 `json:"attack_comparison_ratio"`
	FastAttacks      *float64 `json:"fast_attacks_ratio"`
	ChargedMoves     *float64 `json:"charged_moves_ratio"`
}

func (q questionRequest) weights(defaults model.Weights) model.Weights {
	w := defaults
	if q.AttackComparison != nil {
		w.AttackComparison = *q.AttackComparison
	}
	if q.FastAttacks != nil {
		w.FastAttack = *q.FastAttacks
	}
	if q.ChargedMoves != nil {
		w.ChargedMove = *q.ChargedMoves
	}
	return w
}

type questionResponse struct {
	Type string `json:"type"`
	model.Question
}

func (s *Server) getQuestion(w http.ResponseWriter, r *http.Request) {
	var req questionRequest
	if err := decodeBody(w, r, &req); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	weights := req.weights(s.cfg.Weights)
	if weights.AllZero() {
		writeJSON(w, http.StatusOK, questionResponse{
			Type:     questionTypeDisabled,
			Question: model.Question{Text: "All questions disabled - check settings."},
		})
		return
	}

	ctx := r.Context()
	state, err := s.loadState(ctx)
	if err != nil {
		s.internalError(w, "failed to load session", err)
		return
	}
	if len(state.Roster) == 0 {
		writeJSON(w, http.StatusOK, questionResponse{
			Type:     questionTypeEmpty,
			Question: model.Question{Text: "Load a dataset first."},
		})
		return
	}

	s.mu.Lock()
	q, ok := s.cfg.Generator.Generate(state.Roster, s.cfg.Dex, state.MaxCP, weights)
	s.mu.Unlock()
	if !ok {
		writeJSON(w, http.StatusOK, questionResponse{
			Type:     questionTypeEmpty,
			Question: model.Question{Text: "The loaded dataset has no entries for the enabled categories."},
		})
		return
	}

	state.Question = q
	state.HasQuestion = true
	if err := s.saveState(ctx, state); err != nil {
		s.internalError(w, "failed to save session", err)
		return
	}
	writeJSON(w, http.StatusOK, questionResponse{Type: questionTypeQuestion, Question: q})
}

type checkAnswerRequest struct {
	UserInput json.RawMessage `json:"user_input"`
}

type checkAnswerResponse struct {
	IsCorrect   bool   `json:"is_correct"`
	Answer      string `json:"correct_answer"`
	Explanation string `json:"answer_explanation"`
}

func (s *Server) checkAnswer(w http.ResponseWriter, r *http.Request) {
	var req checkAnswerRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	input, err := rawInput(req.UserInput)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	ctx := r.Context()
	state, err := s.loadState(ctx)
	if err != nil {
		s.internalError(w, "failed to load session", err)
		return
	}
	if !state.HasQuestion {
		writeError(w, http.StatusBadRequest, "no current question")
		return
	}

	q := state.Question
	correct := answer.Check(q, input)
	if s.cfg.History != nil {
		attempt := model.Attempt{
			AnsweredAt: time.Now(),
			Shell:      ShellName,
			Category:   q.Category,
			Dataset:    state.Dataset,
			MaxCP:      state.MaxCP,
			Answer:     q.Answer,
			Input:      strings.TrimSpace(input),
			Correct:    correct,
		}
		if _, err := s.cfg.History.InsertAttempt(ctx, attempt); err != nil {
			s.log.Warn("failed to record answer", "error", err)
		}
	}
	writeJSON(w, http.StatusOK, checkAnswerResponse{
		IsCorrect:   correct,
		Answer:      q.Answer,
		Explanation: q.Explanation,
	})
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) error {
	return json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodySize)).Decode(dst)
}

// parseMaxCP accepts a positive integer up to maxCPLimit, its decimal string,
// or "Max" for no cap.
func parseMaxCP(raw json.RawMessage) (int, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return 0, errors.New("max_cp is required")
	}
	var text string
	if err := json.Unmarshal(raw, &text); err == nil {
		if strings.EqualFold(strings.TrimSpace(text), maxCPNoCapLabel) {
			return cp.NoCap, nil
		}
		v, err := strconv.Atoi(strings.TrimSpace(text))
		if err != nil || v <= 0 || v > maxCPLimit {
			return 0, fmt.Errorf("invalid max_cp %q", text)
		}
		return v, nil
	}
	var num float64
	if err := json.Unmarshal(raw, &num); err != nil {
		return 0, fmt.Errorf("invalid max_cp %s", raw)
	}
	if num <= 0 || num > maxCPLimit || num != math.Trunc(num) {
		return 0, fmt.Errorf("invalid max_cp %v", num)
	}
	return int(num), nil
}

func maxCPValue(maxCP int) any {
	if maxCP <= cp.NoCap {
		return maxCPNoCapLabel
	}
	return maxCP
}

func rawInput(raw json.RawMessage) (string, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return "", errors.New("user_input is required")
	}
	var text string
	if err := json.Unmarshal(raw, &text); err == nil {
		return text, nil
	}
	var num json.Number
	if err := json.Unmarshal(raw, &num); err != nil {
		return "", fmt.Errorf("invalid user_input %s", raw)
	}
	return num.String(), nil
}
