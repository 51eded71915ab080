package mongostore

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	projectdomain "github.com/GoSim-25-26J-441/taskflow-backend/internal/projects/domain"
	"github.com/GoSim-25-26J-441/taskflow-backend/internal/storage"
)

type projectDoc struct {
	ID          string    `bson:"_id"`
	Name        string    `bson:"name"`
	Description string    `bson:"description"`
	CreatedBy   string    `bson:"createdBy"`
	CreatedAt   time.Time `bson:"createdAt"`
	UpdatedAt   time.Time `bson:"updatedAt"`
}

func (d projectDoc) project() projectdomain.Project {
	return projectdomain.Project{
		ID:          d.ID,
		Name:        d.Name,
		Description: d.Description,
		CreatedBy:   d.CreatedBy,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
}

func (s *Store) CreateProject(ctx context.Context, p *projectdomain.Project) error {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = storage.Timestamp(time.Now())
	}
	if p.UpdatedAt.IsZero() {
		p.UpdatedAt = p.CreatedAt
	}

	_, err := s.projects.InsertOne(ctx, projectDoc{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		CreatedBy:   p.CreatedBy,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	})
	if err != nil {
		return fmt.Errorf("insert project: %w", err)
	}
	return nil
}

func (s *Store) ProjectsByOwner(ctx context.Context, ownerID string) ([]projectdomain.Project, error) {
	cur, err := s.projects.Find(ctx, bson.M{"createdBy": ownerID}, options.Find().SetSort(newestFirst))
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}

	var docs []projectDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode projects: %w", err)
	}

	out := make([]projectdomain.Project, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.project())
	}
	return out, nil
}

func (s *Store) ProjectByOwner(ctx context.Context, ownerID, id string) (*projectdomain.Project, error) {
	var doc projectDoc
	if err := s.projects.FindOne(ctx, bson.M{"_id": id, "createdBy": ownerID}).Decode(&doc); err != nil {
		return nil, notFound(err)
	}
	p := doc.project()
	return &p, nil
}

func (s *Store) UpdateProject(ctx context.Context, ownerID, id string, patch projectdomain.Patch, now time.Time) (*projectdomain.Project, error) {
	set := bson.M{"updatedAt": now}
	if patch.Name != nil {
		set["name"] = *patch.Name
	}
	if patch.Description != nil {
		set["description"] = *patch.Description
	}

	var doc projectDoc
	err := s.projects.FindOneAndUpdate(ctx,
		bson.M{"_id": id, "createdBy": ownerID},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&doc)
	if err != nil {
		return nil, notFound(err)
	}
	p := doc.project()
	return &p, nil
}

func (s *Store) DeleteProject(ctx context.Context, ownerID, id string) (bool, error) {
	res, err := s.projects.DeleteOne(ctx, bson.M{"_id": id, "createdBy": ownerID})
	if err != nil {
		return false, fmt.Errorf("delete project: %w", err)
	}
	return res.DeletedCount > 0, nil
}
