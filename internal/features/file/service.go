package file

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"math"

	"files-manager/internal/features/events"
	"files-manager/internal/metrics"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// PageSize is the number of records per listing page.
const PageSize = 20

type UploadInput struct {
	Name     string
	Type     string
	ParentID string // "" or "0" for root
	IsPublic bool
	Data     string // base64, required unless Type is folder
}

type ListInput struct {
	ParentID string
	Page     int
}

// EventPublisher is satisfied by *events.Hub.
type EventPublisher interface {
	Publish(userID string, ev events.Event)
}

type FileService interface {
	Upload(ctx context.Context, userID primitive.ObjectID, in UploadInput) (*File, error)
	Show(ctx context.Context, userID primitive.ObjectID, id string) (*File, error)
	List(ctx context.Context, userID primitive.ObjectID, in ListInput) ([]*File, error)
}

type FileServiceImpl struct {
	FileRepo  FileRepository
	Hierarchy HierarchyValidator
	Storage   BlobStorage
	Events    EventPublisher
	Metrics   *metrics.Metrics
	Logger    *zap.Logger
}

func NewFileService(
	fileRepo FileRepository,
	hierarchy HierarchyValidator,
	storage BlobStorage,
	publisher EventPublisher,
	m *metrics.Metrics,
	logger *zap.Logger,
) FileService {
	return &FileServiceImpl{
		FileRepo:  fileRepo,
		Hierarchy: hierarchy,
		Storage:   storage,
		Events:    publisher,
		Metrics:   m,
		Logger:    logger,
	}
}

// Upload validates in, writes the payload for non-folders and inserts the
// record. The bytes are on disk before the insert is attempted.
func (s *FileServiceImpl) Upload(ctx context.Context, userID primitive.ObjectID, in UploadInput) (*File, error) {
	f, size, err := s.upload(ctx, userID, in)

	label := uploadTypeLabel(in.Type)
	var verr *ValidationError
	switch {
	case err == nil:
		s.Metrics.RecordUpload(label, "created", size)
	case errors.As(err, &verr), errors.Is(err, ErrParentNotFound), errors.Is(err, ErrParentNotAFolder):
		s.Metrics.RecordUpload(label, "rejected", 0)
	default:
		s.Metrics.RecordUpload(label, "failed", 0)
	}
	return f, err
}

// uploadTypeLabel keeps the metric label set bounded to the known types.
func uploadTypeLabel(t string) string {
	if FileType(t).Valid() {
		return t
	}
	return "invalid"
}

func (s *FileServiceImpl) upload(ctx context.Context, userID primitive.ObjectID, in UploadInput) (*File, int, error) {
	if in.Name == "" {
		return nil, 0, missingField("name")
	}
	fileType := FileType(in.Type)
	if !fileType.Valid() {
		return nil, 0, missingField("type")
	}
	if fileType != TypeFolder && in.Data == "" {
		return nil, 0, missingField("data")
	}

	parent, err := s.Hierarchy.Validate(ctx, in.ParentID)
	if err != nil {
		return nil, 0, err
	}

	f := &File{
		UserID:   userID,
		Name:     in.Name,
		Type:     fileType,
		IsPublic: in.IsPublic,
		ParentID: parent,
	}

	var size int
	if fileType != TypeFolder {
		payload, err := decodeBase64(in.Data)
		if err != nil {
			return nil, 0, &ValidationError{Field: "data", Reason: "Invalid data"}
		}
		path, err := s.Storage.Write(ctx, payload)
		if err != nil {
			return nil, 0, fmt.Errorf("%w: %v", ErrStorageWriteFailed, err)
		}
		f.LocalPath = path
		size = len(payload)
	}

	if err := s.FileRepo.Insert(ctx, f); err != nil {
		if f.LocalPath != "" {
			if rmErr := s.Storage.Remove(f.LocalPath); rmErr != nil {
				s.Logger.Warn("orphaned blob after failed insert",
					zap.String("path", f.LocalPath), zap.Error(rmErr))
			}
		}
		return nil, 0, fmt.Errorf("insert file: %w", err)
	}

	s.Logger.Info("file created",
		zap.String("file_id", f.ID.Hex()),
		zap.String("user_id", userID.Hex()),
		zap.String("type", string(f.Type)),
		zap.String("parent_id", f.ParentID.String()),
	)
	if s.Events != nil {
		s.Events.Publish(userID.Hex(), events.Event{Type: events.EventFileCreated, File: f})
	}
	return f, size, nil
}

// Show returns the record only when userID owns it.
func (s *FileServiceImpl) Show(ctx context.Context, userID primitive.ObjectID, id string) (*File, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}

	f, err := s.FileRepo.FindOwned(ctx, oid, userID)
	if errors.Is(err, ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find file: %w", err)
	}
	return f, nil
}

// List returns one page of userID's entries directly under in.ParentID.
// An unknown, foreign or malformed parent yields an empty page.
func (s *FileServiceImpl) List(ctx context.Context, userID primitive.ObjectID, in ListInput) ([]*File, error) {
	s.Metrics.RecordListing()

	page := in.Page
	if page < 0 {
		page = 0
	}
	if int64(page) > math.MaxInt64/PageSize {
		return []*File{}, nil
	}

	parent, err := ParseParentRef(in.ParentID)
	if err != nil {
		return []*File{}, nil
	}

	if !parent.IsRoot() {
		_, err := s.FileRepo.FindOwned(ctx, parent.FolderID(), userID)
		if errors.Is(err, ErrNotFound) {
			return []*File{}, nil
		}
		if err != nil {
			return nil, fmt.Errorf("find parent: %w", err)
		}
	}

	files, err := s.FileRepo.FindPage(ctx, userID, parent, int64(page)*PageSize, PageSize)
	if err != nil {
		return nil, fmt.Errorf("list files: %w", err)
	}
	if files == nil {
		files = []*File{}
	}
	return files, nil
}

// decodeBase64 accepts padded or unpadded, standard or URL-safe alphabets.
func decodeBase64(s string) ([]byte, error) {
	var lastErr error
	for _, enc := range []*base64.Encoding{
		base64.StdEncoding,
		base64.RawStdEncoding,
		base64.URLEncoding,
		base64.RawURLEncoding,
	} {
		b, err := enc.DecodeString(s)
		if err == nil {
			return b, nil
		}
		lastErr = err
	}
	return nil, lastErr
}
