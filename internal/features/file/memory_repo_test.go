package file

import (
	"context"
	"sync"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// memoryFileRepo keeps insertion order, which stands in for the store's natural order.
type memoryFileRepo struct {
	mu        sync.Mutex
	files     []*File
	insertErr error
}

func newMemoryFileRepo() *memoryFileRepo {
	return &memoryFileRepo{}
}

func (r *memoryFileRepo) Insert(ctx context.Context, f *File) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.insertErr != nil {
		return r.insertErr
	}
	if f.ID.IsZero() {
		f.ID = primitive.NewObjectID()
	}
	cp := *f
	r.files = append(r.files, &cp)
	return nil
}

func (r *memoryFileRepo) FindByID(ctx context.Context, id primitive.ObjectID) (*File, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, f := range r.files {
		if f.ID == id {
			cp := *f
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

func (r *memoryFileRepo) FindOwned(ctx context.Context, id, userID primitive.ObjectID) (*File, error) {
	f, err := r.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if f.UserID != userID {
		return nil, ErrNotFound
	}
	return f, nil
}

func (r *memoryFileRepo) FindPage(ctx context.Context, userID primitive.ObjectID, parent ParentRef, skip, limit int64) ([]*File, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []*File{}
	var seen int64
	for _, f := range r.files {
		if f.UserID != userID || f.ParentID != parent {
			continue
		}
		if seen >= skip && int64(len(out)) < limit {
			cp := *f
			out = append(out, &cp)
		}
		seen++
	}
	return out, nil
}

func (r *memoryFileRepo) ExistsByLocalPath(ctx context.Context, path string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, f := range r.files {
		if f.LocalPath == path {
			return true, nil
		}
	}
	return false, nil
}

func (r *memoryFileRepo) Count(ctx context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.files)), nil
}

func (r *memoryFileRepo) EnsureIndexes(ctx context.Context) error { return nil }
