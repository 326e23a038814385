package service

import (
	"context"
	"io"
	"log"
	"mime/multipart"
	"strings"
	"time"
	"unicode/utf8"

	"tuddy-chat-be/internal/constant"
	"tuddy-chat-be/internal/dto"
	"tuddy-chat-be/internal/entity"
	"tuddy-chat-be/internal/pkg/apperror"
	"tuddy-chat-be/internal/pkg/logger"
	"tuddy-chat-be/internal/repository/memory"
	"tuddy-chat-be/internal/repository/specification"
	"tuddy-chat-be/internal/repository/unitofwork"
	"tuddy-chat-be/pkg/chat/resolver"
	"tuddy-chat-be/pkg/chat/router"
	"tuddy-chat-be/pkg/chat/usage"
	"tuddy-chat-be/pkg/events"
	"tuddy-chat-be/pkg/generator"
	pktNats "tuddy-chat-be/pkg/nats"

	"github.com/google/uuid"
)

type IChatService interface {
	SendChat(ctx context.Context, userId uuid.UUID, request *dto.SendChatRequest, file *multipart.FileHeader) (*dto.SendChatResponse, error)
	GetAllSessions(ctx context.Context, userId uuid.UUID) ([]*dto.ChatSessionResponse, error)
	GetMessages(ctx context.Context, userId uuid.UUID, sessionId uuid.UUID, page int) (*dto.ChatMessagePage, error)
	DeleteSession(ctx context.Context, userId uuid.UUID, sessionId uuid.UUID) error
}

type chatService struct {
	uowFactory      unitofwork.RepositoryFactory
	artifactService IArtifactService
	generatorClient generator.IClient
	contextResolver *resolver.Resolver
	modeRouter      *router.Router
	usageTracker    *usage.Tracker
	ownerCache      *memory.SessionOwnerCache
	eventPublisher  *pktNats.Publisher
	historyTurns    int
	log             logger.ILogger
}

func NewChatService(
	uowFactory unitofwork.RepositoryFactory,
	artifactService IArtifactService,
	generatorClient generator.IClient,
	contextResolver *resolver.Resolver,
	modeRouter *router.Router,
	usageTracker *usage.Tracker,
	ownerCache *memory.SessionOwnerCache,
	eventPublisher *pktNats.Publisher,
	historyTurns int,
	log logger.ILogger,
) IChatService {
	return &chatService{
		uowFactory:      uowFactory,
		artifactService: artifactService,
		generatorClient: generatorClient,
		contextResolver: contextResolver,
		modeRouter:      modeRouter,
		usageTracker:    usageTracker,
		ownerCache:      ownerCache,
		eventPublisher:  eventPublisher,
		historyTurns:    historyTurns,
		log:             log,
	}
}

// SendChat runs one full turn: resolve or create the session, attach any
// file, resolve the context set, route to the matching generator endpoint
// and persist both halves of the exchange. Each database write happens in
// its own short transaction; the generator call holds no transaction at all.
func (s *chatService) SendChat(ctx context.Context, userId uuid.UUID, request *dto.SendChatRequest, file *multipart.FileHeader) (*dto.SendChatResponse, error) {
	if strings.TrimSpace(request.Query) == "" {
		return nil, apperror.Validation("query is required")
	}

	allowed, err := s.usageTracker.Consume(ctx, userId)
	if err != nil {
		s.log.Warn("chat", "Usage tracker unavailable", map[string]interface{}{"error": err.Error()})
	}
	if !allowed {
		return nil, apperror.LimitExceeded("daily chat limit reached")
	}

	// Write 1: resolve the target session.
	session, err := s.resolveSession(ctx, userId, request.SessionId, request.Query)
	if err != nil {
		return nil, err
	}

	// Attachment handling happens before any message row exists, so a
	// rejected attachment leaves the turn without a trace.
	attached, inlineData, err := s.resolveAttachment(ctx, userId, request.FileId, file)
	if err != nil {
		return nil, err
	}

	var artifactId *uuid.UUID
	if attached != nil {
		artifactId = &attached.Id
	}

	// Write 2: the user message is durable before the generator is asked.
	userMessage := &entity.ChatMessage{
		Id:            uuid.New(),
		ChatSessionId: session.Id,
		ArtifactId:    artifactId,
		SenderType:    constant.SenderTypeUser,
		Content:       request.Query,
		CreatedAt:     time.Now(),
	}
	if err := s.createMessage(ctx, userMessage); err != nil {
		return nil, err
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	contextSet, err := s.contextResolver.Resolve(ctx, uow, session.Id, attached)
	if err != nil {
		return nil, err
	}

	mode, path := s.modeRouter.Route(contextSet)

	// Inline bytes always travel with the turn that carried them, even when
	// ingestion failed; only the persisted context set is limited to
	// COMPLETED artifacts.
	var attachments []generator.Attachment
	if inlineData != nil {
		attachments = append(attachments, generator.Attachment{
			Filename: attached.OriginalFilename,
			Data:     inlineData,
		})
	}

	answer := s.generatorClient.Ask(ctx, path, generator.TurnPayload{
		UserId:    userId.String(),
		SessionId: session.Id.String(),
		Query:     request.Query,
		NTurns:    s.historyTurns,
		FileNames: resolver.FileNames(contextSet),
	}, attachments)

	// Write 3: the bot reply, fallback text included.
	botMessage := &entity.ChatMessage{
		Id:            uuid.New(),
		ChatSessionId: session.Id,
		SenderType:    constant.SenderTypeBot,
		Content:       answer,
		CreatedAt:     time.Now(),
	}
	if err := s.createMessage(ctx, botMessage); err != nil {
		return nil, err
	}

	if s.eventPublisher != nil {
		evt := events.NewChatTurnCompleted(userId, session.Id, string(mode))
		if err := s.eventPublisher.Publish(ctx, evt); err != nil {
			log.Printf("[WARN] Failed to publish chat event: %v", err)
		}
	}

	return &dto.SendChatResponse{
		SessionId: session.Id,
		Title:     session.Title,
		Mode:      string(mode),
		Answer:    answer,
	}, nil
}

// resolveSession loads and authorizes an existing session, or creates a new
// one titled from the first query.
func (s *chatService) resolveSession(ctx context.Context, userId uuid.UUID, sessionId *uuid.UUID, query string) (*entity.ChatSession, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	if sessionId != nil {
		if owner, found := s.ownerCache.Get(*sessionId); found && owner != userId {
			return nil, apperror.AccessDenied()
		}

		session, err := uow.ChatSessionRepository().FindOne(ctx, specification.ByID{ID: *sessionId})
		if err != nil {
			return nil, err
		}
		// Missing and foreign sessions get the same answer; existence is
		// not leaked to non-owners.
		if session == nil || session.UserId != userId {
			return nil, apperror.AccessDenied()
		}
		s.ownerCache.Save(session.Id, session.UserId)
		return session, nil
	}

	session := &entity.ChatSession{
		Id:        uuid.New(),
		UserId:    userId,
		Title:     deriveTitle(query),
		CreatedAt: time.Now(),
	}

	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	if err := uow.ChatSessionRepository().Create(ctx, session); err != nil {
		return nil, err
	}
	if err := uow.Commit(); err != nil {
		return nil, err
	}

	s.ownerCache.Save(session.Id, session.UserId)
	return session, nil
}

// resolveAttachment turns either an inline upload or an artifact reference
// into the artifact attached to this turn.
func (s *chatService) resolveAttachment(ctx context.Context, userId uuid.UUID, fileId *uuid.UUID, file *multipart.FileHeader) (*entity.Artifact, []byte, error) {
	if file != nil {
		data, contentType, err := readMultipartFile(file)
		if err != nil {
			return nil, nil, apperror.Validation("failed to read uploaded file")
		}
		artifact, err := s.artifactService.IngestNow(ctx, userId, file.Filename, contentType, data)
		if err != nil {
			return nil, nil, err
		}
		return artifact, data, nil
	}

	if fileId != nil {
		uow := s.uowFactory.NewUnitOfWork(ctx)
		artifact, err := uow.ArtifactRepository().FindOne(ctx,
			specification.ByID{ID: *fileId},
			specification.UserOwnedBy{UserID: userId},
		)
		if err != nil {
			return nil, nil, err
		}
		if artifact == nil {
			return nil, nil, apperror.AccessDenied()
		}
		if artifact.Status != constant.ArtifactStatusCompleted {
			return nil, nil, apperror.ArtifactNotReady("file is not ready for chat yet")
		}
		return artifact, nil, nil
	}

	return nil, nil, nil
}

func (s *chatService) createMessage(ctx context.Context, message *entity.ChatMessage) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback()

	if err := uow.ChatMessageRepository().Create(ctx, message); err != nil {
		return err
	}
	return uow.Commit()
}

func (s *chatService) GetAllSessions(ctx context.Context, userId uuid.UUID) ([]*dto.ChatSessionResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	sessions, err := uow.ChatSessionRepository().FindAll(ctx,
		specification.UserOwnedBy{UserID: userId},
		specification.OrderBy{Field: "created_at", Desc: true},
	)
	if err != nil {
		return nil, err
	}

	responses := make([]*dto.ChatSessionResponse, 0, len(sessions))
	for _, session := range sessions {
		createdAt := session.CreatedAt
		responses = append(responses, &dto.ChatSessionResponse{
			Id:        session.Id,
			Title:     session.Title,
			CreatedAt: &createdAt,
			UpdatedAt: session.UpdatedAt,
		})
	}
	return responses, nil
}

// GetMessages returns one page of a session's history, newest first. One
// extra row is fetched to decide has_next without a count query.
func (s *chatService) GetMessages(ctx context.Context, userId uuid.UUID, sessionId uuid.UUID, page int) (*dto.ChatMessagePage, error) {
	if page < 0 {
		page = 0
	}

	if err := s.authorizeSession(ctx, userId, sessionId); err != nil {
		return nil, err
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	size := constant.ChatPageSize
	messages, err := uow.ChatMessageRepository().FindAll(ctx,
		specification.ByChatSessionID{ChatSessionID: sessionId},
		specification.OrderBy{Field: "created_at", Desc: true},
		specification.Pagination{Limit: size + 1, Offset: page * size},
	)
	if err != nil {
		return nil, err
	}

	hasNext := len(messages) > size
	if hasNext {
		messages = messages[:size]
	}

	items := make([]dto.ChatMessageResponse, 0, len(messages))
	for _, message := range messages {
		createdAt := message.CreatedAt
		items = append(items, dto.ChatMessageResponse{
			Id:         message.Id,
			SenderType: message.SenderType,
			Content:    message.Content,
			ArtifactId: message.ArtifactId,
			CreatedAt:  &createdAt,
		})
	}

	return &dto.ChatMessagePage{
		Items:   items,
		Page:    page,
		Size:    size,
		HasNext: hasNext,
	}, nil
}

func (s *chatService) DeleteSession(ctx context.Context, userId uuid.UUID, sessionId uuid.UUID) error {
	if err := s.authorizeSession(ctx, userId, sessionId); err != nil {
		return err
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback()

	if err := uow.ChatSessionRepository().Delete(ctx, sessionId); err != nil {
		return err
	}
	if err := uow.Commit(); err != nil {
		return err
	}

	s.ownerCache.Delete(sessionId)
	return nil
}

func (s *chatService) authorizeSession(ctx context.Context, userId uuid.UUID, sessionId uuid.UUID) error {
	if owner, found := s.ownerCache.Get(sessionId); found {
		if owner != userId {
			return apperror.AccessDenied()
		}
		return nil
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	session, err := uow.ChatSessionRepository().FindOne(ctx, specification.ByID{ID: sessionId})
	if err != nil {
		return err
	}
	if session == nil || session.UserId != userId {
		return apperror.AccessDenied()
	}
	s.ownerCache.Save(session.Id, session.UserId)
	return nil
}

// deriveTitle takes the leading runes of the first query, or a default when
// the query is blank after trimming.
func deriveTitle(query string) string {
	query = strings.TrimSpace(query)
	if query == "" {
		return constant.DefaultSessionTitle
	}
	if utf8.RuneCountInString(query) <= constant.SessionTitleMaxLen {
		return query
	}
	runes := []rune(query)
	return string(runes[:constant.SessionTitleMaxLen])
}

func readMultipartFile(file *multipart.FileHeader) ([]byte, string, error) {
	src, err := file.Open()
	if err != nil {
		return nil, "", err
	}
	defer src.Close()

	data, err := io.ReadAll(src)
	if err != nil {
		return nil, "", err
	}
	return data, file.Header.Get("Content-Type"), nil
}
