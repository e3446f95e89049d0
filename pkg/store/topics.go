package store

import (
	"context"
	"io"
	"sync"

	"github.com/samber/lo"

	"github.com/tutorchat/client/pkg/domain"
)

type TopicsAPI interface {
	List(ctx context.Context) ([]domain.Topic, error)
	Get(ctx context.Context, id int64) (domain.Topic, error)
	Create(ctx context.Context, draft domain.TopicDraft) (domain.Topic, error)
	Update(ctx context.Context, id int64, draft domain.TopicDraft) (domain.Topic, error)
	Delete(ctx context.Context, id int64) error
	Documents(ctx context.Context, id int64) ([]domain.TopicDocument, error)
	UploadDocument(ctx context.Context, id int64, fileName string, file io.Reader) (domain.TopicDocument, error)
}

// TopicsStore holds the admin topic collection. List order is insertion
// order; Create appends.
type TopicsStore struct {
	api TopicsAPI

	mu        sync.RWMutex
	topics    []domain.Topic
	selected  *domain.Topic
	documents []domain.TopicDocument
	loading   bool
	lastErr   string
}

func NewTopicsStore(api TopicsAPI) *TopicsStore {
	return &TopicsStore{api: api}
}

func (s *TopicsStore) FetchAll(ctx context.Context) error {
	s.setLoading()

	topics, err := s.api.List(ctx)
	if err != nil {
		s.finish(err)
		return err
	}

	s.mu.Lock()
	s.topics = topics
	s.mu.Unlock()
	s.finish(nil)
	return nil
}

func (s *TopicsStore) FetchByID(ctx context.Context, id int64) error {
	s.setLoading()

	topic, err := s.api.Get(ctx, id)
	if err != nil {
		s.finish(err)
		return err
	}

	s.mu.Lock()
	s.selected = &topic
	s.mu.Unlock()
	s.finish(nil)
	return nil
}

func (s *TopicsStore) Create(ctx context.Context, draft domain.TopicDraft) error {
	s.setLoading()

	topic, err := s.api.Create(ctx, draft)
	if err != nil {
		s.finish(err)
		return err
	}

	s.mu.Lock()
	s.topics = append(s.topics, topic)
	s.mu.Unlock()
	s.finish(nil)
	return nil
}

func (s *TopicsStore) Update(ctx context.Context, id int64, draft domain.TopicDraft) error {
	s.setLoading()

	updated, err := s.api.Update(ctx, id, draft)
	if err != nil {
		s.finish(err)
		return err
	}

	s.mu.Lock()
	if _, idx, ok := lo.FindIndexOf(s.topics, func(t domain.Topic) bool { return t.ID == id }); ok {
		s.topics[idx] = updated
	}
	if s.selected != nil && s.selected.ID == id {
		s.selected = &updated
	}
	s.mu.Unlock()
	s.finish(nil)
	return nil
}

func (s *TopicsStore) Delete(ctx context.Context, id int64) error {
	s.setLoading()

	if err := s.api.Delete(ctx, id); err != nil {
		s.finish(err)
		return err
	}

	s.mu.Lock()
	s.topics = lo.Filter(s.topics, func(t domain.Topic, _ int) bool { return t.ID != id })
	if s.selected != nil && s.selected.ID == id {
		s.selected = nil
	}
	s.mu.Unlock()
	s.finish(nil)
	return nil
}

func (s *TopicsStore) FetchDocuments(ctx context.Context, topicID int64) error {
	s.setLoading()

	docs, err := s.api.Documents(ctx, topicID)
	if err != nil {
		s.finish(err)
		return err
	}

	s.mu.Lock()
	s.documents = docs
	s.mu.Unlock()
	s.finish(nil)
	return nil
}

// UploadDocument bumps the owning topic's document counter in place after a
// successful upload instead of re-fetching the topic.
func (s *TopicsStore) UploadDocument(ctx context.Context, topicID int64, fileName string, file io.Reader) error {
	s.setLoading()

	doc, err := s.api.UploadDocument(ctx, topicID, fileName, file)
	if err != nil {
		s.finish(err)
		return err
	}

	s.mu.Lock()
	s.documents = append(s.documents, doc)
	if _, idx, ok := lo.FindIndexOf(s.topics, func(t domain.Topic) bool { return t.ID == topicID }); ok {
		s.topics[idx].DocumentCount++
	}
	if s.selected != nil && s.selected.ID == topicID {
		s.selected.DocumentCount++
	}
	s.mu.Unlock()
	s.finish(nil)
	return nil
}

func (s *TopicsStore) ClearError() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastErr = ""
}

func (s *TopicsStore) Topics() []domain.Topic {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Topic, len(s.topics))
	copy(out, s.topics)
	return out
}

func (s *TopicsStore) Selected() (domain.Topic, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.selected == nil {
		return domain.Topic{}, false
	}
	return *s.selected, true
}

func (s *TopicsStore) Documents() []domain.TopicDocument {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.TopicDocument, len(s.documents))
	copy(out, s.documents)
	return out
}

func (s *TopicsStore) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

func (s *TopicsStore) LastError() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastErr
}

func (s *TopicsStore) setLoading() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.loading = true
	s.lastErr = ""
}

// finish clears the loading flag in both outcomes and records the error when
// there is one.
func (s *TopicsStore) finish(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.loading = false
	if err != nil {
		s.lastErr = err.Error()
	}
}
