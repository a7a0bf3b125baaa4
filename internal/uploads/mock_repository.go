package uploads

import (
	"sync"
	"time"
)

type mockRepository struct {
	uploads map[uint]*Upload
	nextID  uint
	mu      sync.RWMutex
}

func newMockRepository() *mockRepository {
	return &mockRepository{
		uploads: make(map[uint]*Upload),
		nextID:  1,
	}
}

func (r *mockRepository) CreateUpload(upload *Upload) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	upload.ID = r.nextID
	r.nextID++
	upload.CreatedAt = time.Now()

	stored := *upload
	r.uploads[upload.ID] = &stored
	return nil
}

func (r *mockRepository) GetUpload(userID, id uint) (*Upload, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	upload, exists := r.uploads[id]
	if !exists || upload.UserID != userID {
		return nil, ErrUploadNotFound
	}
	copy := *upload
	return &copy, nil
}
