package store

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/tutorchat/client/pkg/domain"
)

type fakeTopicsAPI struct {
	listFn      func(ctx context.Context) ([]domain.Topic, error)
	getFn       func(ctx context.Context, id int64) (domain.Topic, error)
	createFn    func(ctx context.Context, draft domain.TopicDraft) (domain.Topic, error)
	updateFn    func(ctx context.Context, id int64, draft domain.TopicDraft) (domain.Topic, error)
	deleteFn    func(ctx context.Context, id int64) error
	documentsFn func(ctx context.Context, id int64) ([]domain.TopicDocument, error)
	uploadFn    func(ctx context.Context, id int64, fileName string, file io.Reader) (domain.TopicDocument, error)
}

func (f *fakeTopicsAPI) List(ctx context.Context) ([]domain.Topic, error) { return f.listFn(ctx) }

func (f *fakeTopicsAPI) Get(ctx context.Context, id int64) (domain.Topic, error) {
	return f.getFn(ctx, id)
}

func (f *fakeTopicsAPI) Create(ctx context.Context, draft domain.TopicDraft) (domain.Topic, error) {
	return f.createFn(ctx, draft)
}

func (f *fakeTopicsAPI) Update(ctx context.Context, id int64, draft domain.TopicDraft) (domain.Topic, error) {
	return f.updateFn(ctx, id, draft)
}

func (f *fakeTopicsAPI) Delete(ctx context.Context, id int64) error { return f.deleteFn(ctx, id) }

func (f *fakeTopicsAPI) Documents(ctx context.Context, id int64) ([]domain.TopicDocument, error) {
	return f.documentsFn(ctx, id)
}

func (f *fakeTopicsAPI) UploadDocument(ctx context.Context, id int64, fileName string, file io.Reader) (domain.TopicDocument, error) {
	return f.uploadFn(ctx, id, fileName, file)
}

func seedTopics(t *testing.T, api *fakeTopicsAPI, topics ...domain.Topic) *TopicsStore {
	t.Helper()

	api.listFn = func(context.Context) ([]domain.Topic, error) { return topics, nil }
	s := NewTopicsStore(api)
	if err := s.FetchAll(context.Background()); err != nil {
		t.Fatalf("FetchAll: %v", err)
	}
	return s
}

func TestTopicCreate_Appends(t *testing.T) {
	api := &fakeTopicsAPI{}
	s := seedTopics(t, api, domain.Topic{ID: 1, Name: "Geometry"})

	api.createFn = func(_ context.Context, draft domain.TopicDraft) (domain.Topic, error) {
		return domain.Topic{ID: 2, Name: draft.Name, Description: draft.Description}, nil
	}

	err := s.Create(context.Background(), domain.TopicDraft{Name: "Algebra", Description: "equations and symbols"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	topics := s.Topics()
	if len(topics) != 2 {
		t.Fatalf("topic count = %d, want 2", len(topics))
	}
	if topics[1].Name != "Algebra" {
		t.Errorf("appended topic = %q, want Algebra last", topics[1].Name)
	}
}

func TestTopicUpdate_PreservesOrder(t *testing.T) {
	api := &fakeTopicsAPI{}
	s := seedTopics(t, api,
		domain.Topic{ID: 1, Name: "Geometry"},
		domain.Topic{ID: 2, Name: "Algebra"},
		domain.Topic{ID: 3, Name: "Calculus"},
	)

	api.updateFn = func(_ context.Context, id int64, draft domain.TopicDraft) (domain.Topic, error) {
		return domain.Topic{ID: id, Name: draft.Name}, nil
	}

	if err := s.Update(context.Background(), 2, domain.TopicDraft{Name: "Linear Algebra"}); err != nil {
		t.Fatalf("Update: %v", err)
	}

	topics := s.Topics()
	if topics[1].Name != "Linear Algebra" {
		t.Errorf("topics[1] = %q, want Linear Algebra in place", topics[1].Name)
	}
	if topics[0].ID != 1 || topics[2].ID != 3 {
		t.Errorf("order disturbed: %+v", topics)
	}
}

func TestTopicDelete_ClearsMatchingSelection(t *testing.T) {
	api := &fakeTopicsAPI{}
	s := seedTopics(t, api, domain.Topic{ID: 1, Name: "Geometry"}, domain.Topic{ID: 2, Name: "Algebra"})

	api.getFn = func(_ context.Context, id int64) (domain.Topic, error) {
		return domain.Topic{ID: id, Name: "Algebra"}, nil
	}
	if err := s.FetchByID(context.Background(), 2); err != nil {
		t.Fatalf("FetchByID: %v", err)
	}

	api.deleteFn = func(context.Context, int64) error { return nil }
	if err := s.Delete(context.Background(), 2); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	if _, ok := s.Selected(); ok {
		t.Error("selection should be cleared when the selected topic is deleted")
	}
	if topics := s.Topics(); len(topics) != 1 || topics[0].ID != 1 {
		t.Errorf("topics = %+v, want only id 1", topics)
	}
}

func TestTopicDelete_KeepsOtherSelection(t *testing.T) {
	api := &fakeTopicsAPI{}
	s := seedTopics(t, api, domain.Topic{ID: 1}, domain.Topic{ID: 2})

	api.getFn = func(_ context.Context, id int64) (domain.Topic, error) {
		return domain.Topic{ID: id}, nil
	}
	if err := s.FetchByID(context.Background(), 1); err != nil {
		t.Fatalf("FetchByID: %v", err)
	}

	api.deleteFn = func(context.Context, int64) error { return nil }
	if err := s.Delete(context.Background(), 2); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	if selected, ok := s.Selected(); !ok || selected.ID != 1 {
		t.Errorf("selected = %+v, want id 1 untouched", selected)
	}
}

func TestUploadDocument_BumpsCounterOptimistically(t *testing.T) {
	api := &fakeTopicsAPI{}
	s := seedTopics(t, api, domain.Topic{ID: 1, Name: "Geometry", DocumentCount: 3})

	api.uploadFn = func(_ context.Context, id int64, fileName string, _ io.Reader) (domain.TopicDocument, error) {
		return domain.TopicDocument{ID: 10, TopicID: id, FileName: fileName}, nil
	}

	err := s.UploadDocument(context.Background(), 1, "notes.pdf", strings.NewReader("content"))
	if err != nil {
		t.Fatalf("UploadDocument: %v", err)
	}

	if topics := s.Topics(); topics[0].DocumentCount != 4 {
		t.Errorf("document count = %d, want 4 without a re-fetch", topics[0].DocumentCount)
	}
}

func TestTopicFetch_ErrorClearsLoading(t *testing.T) {
	api := &fakeTopicsAPI{
		listFn: func(context.Context) ([]domain.Topic, error) {
			return nil, errors.New("server returned status 500")
		},
	}
	s := NewTopicsStore(api)

	if err := s.FetchAll(context.Background()); err == nil {
		t.Fatal("expected error")
	}
	if s.Loading() {
		t.Error("loading must be cleared on failure")
	}
	if s.LastError() == "" {
		t.Error("expected recorded error")
	}

	s.ClearError()
	if s.LastError() != "" {
		t.Error("ClearError must reset the recorded error")
	}
}
