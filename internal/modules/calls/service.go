package calls

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	mysqlDriver "github.com/go-sql-driver/mysql"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"

	appcfg "github.com/saleslens/core/internal/config"
	"github.com/saleslens/core/internal/middleware"
	"github.com/saleslens/core/internal/models"
	"github.com/saleslens/core/internal/modules/extractor"
	"github.com/saleslens/core/internal/modules/insight"
	"github.com/saleslens/core/internal/pkg/pagination"
	"github.com/saleslens/core/internal/pkg/response"
	"github.com/saleslens/core/internal/pkg/taskqueue"
)

const TaskTypeProcessCall = "process-call"

var (
	ErrDuplicateCall    = errors.New("call with this call_id already exists")
	ErrCallNotFound     = errors.New("call not found")
	ErrEmbeddingMissing = errors.New("call embedding not available")
)

type processCallPayload struct {
	CallID string `json:"call_id"`
}

type Service struct {
	db        *gorm.DB
	extractor *extractor.Client
	generator insight.TextGenerator
	taskSvc   *taskqueue.Service
	cache     *redis.Client
	recommend appcfg.RecommendConfig
	logger    *zap.Logger
}

func NewService(db *gorm.DB, ext *extractor.Client, gen insight.TextGenerator, taskSvc *taskqueue.Service, cache *redis.Client, recommend appcfg.RecommendConfig, logger *zap.Logger) *Service {
	return &Service{
		db:        db,
		extractor: ext,
		generator: gen,
		taskSvc:   taskSvc,
		cache:     cache,
		recommend: recommend,
		logger:    logger,
	}
}

// Ingest persists a raw call and enqueues its derivation off the request
// path. The returned call has no derived fields yet.
func (s *Service) Ingest(ctx context.Context, dto *CreateCallDTO) (*models.CallModel, error) {
	language := strings.TrimSpace(dto.Language)
	if language == "" {
		language = "en"
	}

	call := models.CallModel{
		CallID:          strings.TrimSpace(dto.CallID),
		AgentID:         strings.TrimSpace(dto.AgentID),
		CustomerID:      strings.TrimSpace(dto.CustomerID),
		Language:        language,
		StartTime:       dto.StartTime,
		DurationSeconds: dto.DurationSeconds,
		Transcript:      dto.Transcript,
	}
	if err := s.db.Create(&call).Error; err != nil {
		if isDuplicateCallIDError(err) {
			return nil, ErrDuplicateCall
		}
		return nil, err
	}

	s.purgeReadCache(ctx)

	if err := s.enqueueProcessing(ctx, &call); err != nil {
		// The call is stored; derivation can be retried later.
		s.logger.Warn("failed to enqueue call processing",
			zap.String("call_id", call.CallID), zap.Error(err))
	}
	return &call, nil
}

// purgeReadCache drops cached GET responses after a write so listings and
// analytics reflect it immediately.
func (s *Service) purgeReadCache(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if _, err := middleware.PurgeHTTPCache(ctx, s.cache); err != nil {
		s.logger.Warn("failed to purge response cache", zap.Error(err))
	}
}

func isDuplicateCallIDError(err error) bool {
	var mysqlErr *mysqlDriver.MySQLError
	if errors.As(err, &mysqlErr) {
		return mysqlErr.Number == 1062
	}
	return strings.Contains(strings.ToLower(err.Error()), "duplicate entry")
}

func (s *Service) enqueueProcessing(ctx context.Context, call *models.CallModel) error {
	payload := processCallPayload{CallID: call.CallID}
	task, err := s.taskSvc.Enqueue(ctx, TaskTypeProcessCall, payload, "process:"+call.CallID, call.CallID)
	if err != nil {
		return err
	}

	// Execute immediately in a goroutine (in production use a worker pool)
	if task != nil && task.Status == taskqueue.TaskPending {
		go s.executeProcessing(context.Background(), task.ID, payload)
	}
	return nil
}

// Reprocess re-runs derivation for an already stored call.
func (s *Service) Reprocess(ctx context.Context, callID string) (*taskqueue.Task, error) {
	call, err := s.GetByCallID(callID)
	if err != nil {
		return nil, err
	}
	if call == nil {
		return nil, ErrCallNotFound
	}

	payload := processCallPayload{CallID: call.CallID}
	task, err := s.taskSvc.Enqueue(ctx, TaskTypeProcessCall, payload, "", call.CallID)
	if err != nil {
		return nil, err
	}
	if task.Status == taskqueue.TaskPending {
		go s.executeProcessing(context.Background(), task.ID, payload)
	}
	return task, nil
}

// executeProcessing derives talk ratio, sentiment and embedding for one call.
// Each derived field is written independently: extractor failures leave their
// field null instead of failing the others.
func (s *Service) executeProcessing(ctx context.Context, taskID string, payload processCallPayload) {
	_ = s.taskSvc.UpdateStatus(ctx, taskID, taskqueue.TaskRunning, nil, "")

	call, err := s.GetByCallID(payload.CallID)
	if err != nil || call == nil {
		_ = s.taskSvc.UpdateStatus(ctx, taskID, taskqueue.TaskFailed, nil, "call not found")
		return
	}

	updates := map[string]interface{}{}

	ratio := insight.EstimateTalkRatio(call.Transcript)
	updates["agent_talk_ratio"] = ratio

	var extractorErrs []string
	if sentiment, err := s.extractor.Sentiment(ctx, call.Transcript); err != nil {
		extractorErrs = append(extractorErrs, "sentiment: "+err.Error())
		s.logger.Warn("sentiment extraction failed",
			zap.String("call_id", call.CallID), zap.Error(err))
	} else {
		updates["customer_sentiment_score"] = sentiment
	}

	if embedding, err := s.extractor.Embed(ctx, call.Transcript); err != nil {
		extractorErrs = append(extractorErrs, "embedding: "+err.Error())
		s.logger.Warn("embedding extraction failed",
			zap.String("call_id", call.CallID), zap.Error(err))
	} else {
		updates["embedding"] = models.FloatArray(embedding)
	}

	if err := s.db.Model(&models.CallModel{}).Where("call_id = ?", call.CallID).Updates(updates).Error; err != nil {
		_ = s.taskSvc.UpdateStatus(ctx, taskID, taskqueue.TaskFailed, nil, err.Error())
		return
	}
	s.purgeReadCache(ctx)

	result := map[string]interface{}{"fields_updated": len(updates)}
	if len(extractorErrs) > 0 {
		result["extractor_errors"] = extractorErrs
	}
	_ = s.taskSvc.UpdateStatus(ctx, taskID, taskqueue.TaskCompleted, result, "")
}

func (s *Service) List(q pagination.Query, filter ListFilter) ([]models.CallModel, response.Pagination, error) {
	tx := s.db.Model(&models.CallModel{}).Order("start_time DESC")
	if filter.AgentID != "" {
		tx = tx.Where("agent_id = ?", filter.AgentID)
	}
	if filter.FromDate != nil {
		tx = tx.Where("start_time >= ?", *filter.FromDate)
	}
	if filter.ToDate != nil {
		tx = tx.Where("start_time <= ?", *filter.ToDate)
	}
	if filter.MinSentiment != nil {
		tx = tx.Where("customer_sentiment_score >= ?", *filter.MinSentiment)
	}
	if filter.MaxSentiment != nil {
		tx = tx.Where("customer_sentiment_score <= ?", *filter.MaxSentiment)
	}

	var items []models.CallModel
	pag, err := pagination.Paginate(tx, q, &items)
	return items, pag, err
}

func (s *Service) GetByCallID(callID string) (*models.CallModel, error) {
	var call models.CallModel
	if err := s.db.First(&call, "call_id = ?", callID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &call, nil
}

// Recommendations ranks the call's nearest stored neighbours and synthesizes
// coaching nudges. Provider failures never surface as errors here; only
// missing calls and missing embeddings do.
func (s *Service) Recommendations(ctx context.Context, callID string) (*RecommendationsResponse, error) {
	target, err := s.GetByCallID(callID)
	if err != nil {
		return nil, err
	}
	if target == nil {
		return nil, ErrCallNotFound
	}
	if len(target.Embedding) == 0 {
		return nil, ErrEmbeddingMissing
	}

	var others []models.CallModel
	err = s.db.
		Where("call_id <> ? AND embedding IS NOT NULL", callID).
		Limit(s.recommend.CandidateLimit).
		Find(&others).Error
	if err != nil {
		return nil, err
	}

	resp := buildRecommendations(ctx, target, others, s.recommend.TopK, s.generator)
	return &resp, nil
}

func buildRecommendations(ctx context.Context, target *models.CallModel, others []models.CallModel, k int, gen insight.TextGenerator) RecommendationsResponse {
	candidates := make([]insight.Candidate, 0, len(others))
	for _, c := range others {
		candidates = append(candidates, insight.Candidate{
			CallID:     c.CallID,
			AgentID:    c.AgentID,
			Embedding:  c.Embedding,
			Transcript: c.Transcript,
		})
	}

	similar := insight.RankSimilar(target.Embedding, candidates, k)
	if similar == nil {
		similar = []insight.SimilarityResult{}
	}

	sentiment := 0.0
	if target.CustomerSentimentScore != nil {
		sentiment = *target.CustomerSentimentScore
	}
	talkRatio := 0.5
	if target.AgentTalkRatio != nil {
		talkRatio = *target.AgentTalkRatio
	}

	messages := insight.SynthesizeNudges(ctx, target.Transcript, sentiment, talkRatio, gen)
	nudges := make([]insight.CoachingNudge, len(messages))
	for i, m := range messages {
		nudges[i] = insight.CoachingNudge{Message: m}
	}

	return RecommendationsResponse{
		SimilarCalls:   similar,
		CoachingNudges: nudges,
	}
}

// CleanupOldCalls removes calls whose start time is older than the retention
// window. Returns the number of rows removed.
func (s *Service) CleanupOldCalls(keepDays int) (int64, error) {
	if keepDays < 1 {
		return 0, errors.New("retention window must be at least one day")
	}
	cutoff := time.Now().AddDate(0, 0, -keepDays)
	res := s.db.Where("start_time < ?", cutoff).Delete(&models.CallModel{})
	return res.RowsAffected, res.Error
}

// decodeProcessPayload is used when tasks are replayed from the queue.
func decodeProcessPayload(raw json.RawMessage) (processCallPayload, error) {
	var p processCallPayload
	err := json.Unmarshal(raw, &p)
	return p, err
}

// ResumePending re-dispatches queued tasks that never ran, e.g. after a
// restart.
func (s *Service) ResumePending(ctx context.Context) error {
	status := taskqueue.TaskPending
	taskType := TaskTypeProcessCall
	tasks, _, err := s.taskSvc.List(ctx, 1, 100, &taskType, &status)
	if err != nil {
		return err
	}
	for _, task := range tasks {
		payload, err := decodeProcessPayload(task.Payload)
		if err != nil {
			_ = s.taskSvc.UpdateStatus(ctx, task.ID, taskqueue.TaskFailed, nil, "invalid payload")
			continue
		}
		go s.executeProcessing(context.Background(), task.ID, payload)
	}
	return nil
}
