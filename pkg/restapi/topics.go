package restapi

import (
	"context"
	"fmt"
	"io"

	"github.com/tutorchat/client/pkg/domain"
)

type TopicsAPI struct {
	c *Client
}

func NewTopicsAPI(c *Client) *TopicsAPI {
	return &TopicsAPI{c: c}
}

func (t *TopicsAPI) List(ctx context.Context) ([]domain.Topic, error) {
	var topics []domain.Topic
	if err := t.c.getJSON(ctx, "/topics", &topics); err != nil {
		return nil, fmt.Errorf("listing topics: %w", err)
	}
	return topics, nil
}

func (t *TopicsAPI) Get(ctx context.Context, id int64) (domain.Topic, error) {
	var topic domain.Topic
	if err := t.c.getJSON(ctx, fmt.Sprintf("/topics/%d", id), &topic); err != nil {
		return domain.Topic{}, fmt.Errorf("fetching topic %d: %w", id, err)
	}
	return topic, nil
}

func (t *TopicsAPI) Create(ctx context.Context, draft domain.TopicDraft) (domain.Topic, error) {
	var topic domain.Topic
	if err := t.c.postJSON(ctx, "/topics", draft, &topic); err != nil {
		return domain.Topic{}, fmt.Errorf("creating topic: %w", err)
	}
	return topic, nil
}

func (t *TopicsAPI) Update(ctx context.Context, id int64, draft domain.TopicDraft) (domain.Topic, error) {
	var topic domain.Topic
	if err := t.c.putJSON(ctx, fmt.Sprintf("/topics/%d", id), draft, &topic); err != nil {
		return domain.Topic{}, fmt.Errorf("updating topic %d: %w", id, err)
	}
	return topic, nil
}

func (t *TopicsAPI) Delete(ctx context.Context, id int64) error {
	if err := t.c.deleteJSON(ctx, fmt.Sprintf("/topics/%d", id)); err != nil {
		return fmt.Errorf("deleting topic %d: %w", id, err)
	}
	return nil
}

func (t *TopicsAPI) Documents(ctx context.Context, id int64) ([]domain.TopicDocument, error) {
	var docs []domain.TopicDocument
	if err := t.c.getJSON(ctx, fmt.Sprintf("/topics/%d/documents", id), &docs); err != nil {
		return nil, fmt.Errorf("listing documents for topic %d: %w", id, err)
	}
	return docs, nil
}

func (t *TopicsAPI) UploadDocument(ctx context.Context, id int64, fileName string, file io.Reader) (domain.TopicDocument, error) {
	var doc domain.TopicDocument
	path := fmt.Sprintf("/topics/%d/documents", id)
	if err := t.c.postMultipart(ctx, path, nil, "file", fileName, file, &doc); err != nil {
		return domain.TopicDocument{}, fmt.Errorf("uploading document to topic %d: %w", id, err)
	}
	return doc, nil
}
