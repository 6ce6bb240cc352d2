package models

import (
	"context"
	"errors"
	"forum-core/apperror"
	"sync"
)

// memoryContentStore applies the ledger primitives on in-memory documents.
// The whole precondition+mutation runs under one lock, same as the single
// conditional operation on the document store.
type memoryContentStore struct {
	mutex sync.Mutex
	docs  map[string]*contentDoc
}

type contentDoc struct {
	counters map[string]int64
	sets     map[string]map[string]bool
	updated  *Updated
}

func newMemoryContentStore() *memoryContentStore {
	return &memoryContentStore{docs: make(map[string]*contentDoc)}
}

func (s *memoryContentStore) add(targetType string, targetID string) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.docs[targetType+"/"+targetID] = &contentDoc{
		counters: make(map[string]int64),
		sets:     make(map[string]map[string]bool),
	}
}

func (s *memoryContentStore) doc(targetType string, targetID string) (*contentDoc, error) {
	doc, ok := s.docs[targetType+"/"+targetID]
	if !ok {
		return nil, apperror.ErrNoData
	}
	return doc, nil
}

func (s *memoryContentStore) Inc(ctx context.Context, targetType string, targetID string, field string) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	doc, err := s.doc(targetType, targetID)
	if err != nil {
		return err
	}
	doc.counters[field]++
	return nil
}

func (s *memoryContentStore) SetInsert(ctx context.Context, targetType string, targetID string, field string, userID string) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	doc, err := s.doc(targetType, targetID)
	if err != nil {
		return err
	}
	if doc.sets[field][userID] {
		return apperror.ErrConflict
	}
	if doc.sets[field] == nil {
		doc.sets[field] = make(map[string]bool)
	}
	doc.sets[field][userID] = true
	return nil
}

func (s *memoryContentStore) SetRemove(ctx context.Context, targetType string, targetID string, field string, userID string) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	doc, err := s.doc(targetType, targetID)
	if err != nil {
		return err
	}
	if !doc.sets[field][userID] {
		return apperror.ErrConflict
	}
	delete(doc.sets[field], userID)
	return nil
}

func (s *memoryContentStore) SetUpdated(ctx context.Context, targetType string, targetID string, updated Updated) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	doc, err := s.doc(targetType, targetID)
	if err != nil {
		return err
	}
	doc.updated = &updated
	return nil
}

// inspection helpers for assertions

func (s *memoryContentStore) counter(targetType string, targetID string, field string) int64 {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	doc, err := s.doc(targetType, targetID)
	if err != nil {
		return -1
	}
	return doc.counters[field]
}

func (s *memoryContentStore) members(targetType string, targetID string, field string) int {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	doc, err := s.doc(targetType, targetID)
	if err != nil {
		return -1
	}
	return len(doc.sets[field])
}

// failingContentStore simulates a store outage
type failingContentStore struct{}

func (s failingContentStore) Inc(ctx context.Context, targetType string, targetID string, field string) error {
	return errors.New("connection refused")
}

func (s failingContentStore) SetInsert(ctx context.Context, targetType string, targetID string, field string, userID string) error {
	return errors.New("connection refused")
}

func (s failingContentStore) SetRemove(ctx context.Context, targetType string, targetID string, field string, userID string) error {
	return errors.New("connection refused")
}

func (s failingContentStore) SetUpdated(ctx context.Context, targetType string, targetID string, updated Updated) error {
	return errors.New("connection refused")
}
