package services

import (
	"context"
	"errors"
	"testing"
	"tikkit/internal/repository"
)

type mockTaskDataRepo struct {
	docs map[int]string
}

func newMockTaskDataRepo() *mockTaskDataRepo {
	return &mockTaskDataRepo{docs: make(map[int]string)}
}

func (m *mockTaskDataRepo) Get(_ context.Context, userID int) (string, error) {
	doc, ok := m.docs[userID]
	if !ok {
		return repository.DefaultTasksJSON, nil
	}
	return doc, nil
}

func (m *mockTaskDataRepo) Put(_ context.Context, userID int, tasksJSON string) error {
	m.docs[userID] = tasksJSON
	return nil
}

func TestTaskData_DefaultDocument(t *testing.T) {
	svc := NewTaskDataService(newMockTaskDataRepo())

	doc, err := svc.Get(context.Background(), 1)
	if err != nil {
		t.Fatalf("чтение пустого документа: %v", err)
	}
	if doc != `{"tasks":[]}` {
		t.Fatalf("ожидался дефолтный документ, получено: %q", doc)
	}
}

func TestTaskData_RoundTrip(t *testing.T) {
	svc := NewTaskDataService(newMockTaskDataRepo())

	cases := []string{
		`{"tasks":[{"id":"1","name":"x"}]}`,
		`{}`,
		`{"tasks":[{"sub":{"deep":{"deeper":[1,2,3]}}}]}`,
	}
	for _, doc := range cases {
		if err := svc.Save(context.Background(), 1, doc); err != nil {
			t.Fatalf("запись %q: %v", doc, err)
		}
		got, err := svc.Get(context.Background(), 1)
		if err != nil {
			t.Fatalf("чтение после записи: %v", err)
		}
		if got != doc {
			t.Fatalf("документ изменился при round-trip: %q != %q", got, doc)
		}
	}
}

func TestTaskData_Isolation(t *testing.T) {
	svc := NewTaskDataService(newMockTaskDataRepo())

	if err := svc.Save(context.Background(), 1, `{"tasks":[{"id":"a"}]}`); err != nil {
		t.Fatalf("запись пользователю 1: %v", err)
	}

	doc, err := svc.Get(context.Background(), 2)
	if err != nil {
		t.Fatalf("чтение пользователя 2: %v", err)
	}
	if doc != `{"tasks":[]}` {
		t.Fatalf("запись пользователя 1 видна пользователю 2: %q", doc)
	}
}

func TestTaskData_InvalidJSONRejected(t *testing.T) {
	svc := NewTaskDataService(newMockTaskDataRepo())

	if err := svc.Save(context.Background(), 1, `{не json`); !errors.Is(err, ErrInvalidJSON) {
		t.Fatalf("ожидался ErrInvalidJSON, получено: %v", err)
	}
}

func TestTaskData_CorruptedStoredDocument(t *testing.T) {
	repo := newMockTaskDataRepo()
	repo.docs[1] = `{битая строка` // испорчено мимо API
	svc := NewTaskDataService(repo)

	if _, err := svc.Get(context.Background(), 1); !errors.Is(err, ErrCorruptedDoc) {
		t.Fatalf("ожидался ErrCorruptedDoc, получено: %v", err)
	}
}
