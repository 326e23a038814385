package service

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"tuddy-chat-be/internal/constant"
	"tuddy-chat-be/internal/dto"
	"tuddy-chat-be/internal/entity"
	"tuddy-chat-be/internal/repository/specification"
	"tuddy-chat-be/internal/repository/unitofwork"
	"tuddy-chat-be/pkg/events"
	"tuddy-chat-be/pkg/generator"
	pktNats "tuddy-chat-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

type IConsumerService interface {
	Consume(ctx context.Context) error
}

type consumerService struct {
	pubSub          *gochannel.GoChannel
	topicName       string
	uowFactory      unitofwork.RepositoryFactory
	generatorClient generator.IClient
	eventPublisher  *pktNats.Publisher
}

func NewConsumerService(
	pubSub *gochannel.GoChannel,
	topicName string,
	uowFactory unitofwork.RepositoryFactory,
	generatorClient generator.IClient,
	eventPublisher *pktNats.Publisher,
) IConsumerService {
	return &consumerService{
		pubSub:          pubSub,
		topicName:       topicName,
		uowFactory:      uowFactory,
		generatorClient: generatorClient,
		eventPublisher:  eventPublisher,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.pubSub.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(ctx, msg)
		}
	}()

	return nil
}

func (cs *consumerService) processMessage(ctx context.Context, msg *message.Message) {
	var payload dto.PublishIndexArtifactMessage
	err := json.Unmarshal(msg.Payload, &payload)
	if err != nil {
		log.Printf("[ERROR] Failed to unmarshal message: %v", err)
		msg.Ack() // Ack invalid messages to prevent infinite retry
		return
	}

	log.Printf("[INFO] Processing indexing for ArtifactId: %s", payload.ArtifactId)

	uow := cs.uowFactory.NewUnitOfWork(ctx)

	artifact, err := uow.ArtifactRepository().FindOne(ctx, specification.ByID{ID: payload.ArtifactId})
	if err != nil {
		log.Printf("[ERROR] Failed to get artifact %s: %v", payload.ArtifactId, err)
		msg.Nack() // Nack for retriable errors
		return
	}
	if artifact == nil {
		log.Printf("[ERROR] Artifact not found: %s", payload.ArtifactId)
		msg.Ack() // Artifact deleted? Ack.
		return
	}
	if artifact.Status == constant.ArtifactStatusCompleted {
		log.Printf("[INFO] Artifact %s already indexed, skipping", artifact.Id)
		msg.Ack()
		return
	}

	if err := cs.markStatus(ctx, artifact, constant.ArtifactStatusProcessing); err != nil {
		log.Printf("[ERROR] Failed to mark artifact %s PROCESSING: %v", artifact.Id, err)
		msg.Nack()
		return
	}

	// The generator call runs outside any transaction; it can take minutes.
	indexErr := cs.generatorClient.SubmitIndexing(ctx, artifact.UserId.String(), artifact.StorageKey)

	finalStatus := constant.ArtifactStatusCompleted
	if indexErr != nil {
		log.Printf("[ERROR] Indexing failed for artifact %s: %v", artifact.Id, indexErr)
		finalStatus = constant.ArtifactStatusFailed
	}

	if err := cs.markStatus(ctx, artifact, finalStatus); err != nil {
		log.Printf("[ERROR] Failed to mark artifact %s %s: %v", artifact.Id, finalStatus, err)
		msg.Nack()
		return
	}

	if cs.eventPublisher != nil {
		evt := events.NewArtifactIndexed(artifact.UserId, artifact.Id, finalStatus)
		if err := cs.eventPublisher.Publish(ctx, evt); err != nil {
			log.Printf("[WARN] Failed to publish artifact event: %v", err)
		}
	}

	log.Printf("[SUCCESS] Artifact %s reached status %s", artifact.Id, finalStatus)
	msg.Ack()
}

func (cs *consumerService) markStatus(ctx context.Context, artifact *entity.Artifact, status string) error {
	uow := cs.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback()

	now := time.Now()
	artifact.Status = status
	artifact.UpdatedAt = &now
	if err := uow.ArtifactRepository().Update(ctx, artifact); err != nil {
		return err
	}
	return uow.Commit()
}
