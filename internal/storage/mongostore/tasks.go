package mongostore

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/GoSim-25-26J-441/taskflow-backend/internal/storage"
	taskdomain "github.com/GoSim-25-26J-441/taskflow-backend/internal/tasks/domain"
)

type taskDoc struct {
	ID          string            `bson:"_id"`
	Title       string            `bson:"title"`
	Description string            `bson:"description"`
	DueDate     time.Time         `bson:"dueDate"`
	Status      taskdomain.Status `bson:"status"`
	Project     string            `bson:"project"`
	CreatedBy   string            `bson:"createdBy"`
	CreatedAt   time.Time         `bson:"createdAt"`
	UpdatedAt   time.Time         `bson:"updatedAt"`
}

func (d taskDoc) task() taskdomain.Task {
	return taskdomain.Task{
		ID:          d.ID,
		Title:       d.Title,
		Description: d.Description,
		DueDate:     d.DueDate,
		Status:      d.Status,
		Project:     d.Project,
		CreatedBy:   d.CreatedBy,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
}

func (s *Store) CreateTask(ctx context.Context, t *taskdomain.Task) error {
	if t.ID == "" {
		t.ID = uuid.New().String()
	}
	if t.CreatedAt.IsZero() {
		t.CreatedAt = storage.Timestamp(time.Now())
	}
	if t.UpdatedAt.IsZero() {
		t.UpdatedAt = t.CreatedAt
	}
	if t.Status == "" {
		t.Status = taskdomain.StatusToDo
	}

	_, err := s.tasks.InsertOne(ctx, taskDoc{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		DueDate:     t.DueDate,
		Status:      t.Status,
		Project:     t.Project,
		CreatedBy:   t.CreatedBy,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	})
	if err != nil {
		return fmt.Errorf("insert task: %w", err)
	}
	return nil
}

func (s *Store) findTasks(ctx context.Context, filter bson.M, sort bson.D) ([]taskdomain.Task, error) {
	cur, err := s.tasks.Find(ctx, filter, options.Find().SetSort(sort))
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}

	var docs []taskDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode tasks: %w", err)
	}

	out := make([]taskdomain.Task, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.task())
	}
	return out, nil
}

func (s *Store) TasksByProject(ctx context.Context, projectID string) ([]taskdomain.Task, error) {
	return s.findTasks(ctx, bson.M{"project": projectID}, newestFirst)
}

func (s *Store) TasksByProjects(ctx context.Context, projectIDs []string) ([]taskdomain.Task, error) {
	if len(projectIDs) == 0 {
		return []taskdomain.Task{}, nil
	}
	return s.findTasks(ctx, bson.M{"project": bson.M{"$in": projectIDs}}, newestFirst)
}

func (s *Store) TaskInProject(ctx context.Context, projectID, id string) (*taskdomain.Task, error) {
	var doc taskDoc
	if err := s.tasks.FindOne(ctx, bson.M{"_id": id, "project": projectID}).Decode(&doc); err != nil {
		return nil, notFound(err)
	}
	t := doc.task()
	return &t, nil
}

func (s *Store) UpdateTask(ctx context.Context, projectID, id string, patch taskdomain.Patch, now time.Time) (*taskdomain.Task, error) {
	set := bson.M{"updatedAt": now}
	if patch.Title != nil {
		set["title"] = *patch.Title
	}
	if patch.Description != nil {
		set["description"] = *patch.Description
	}
	if patch.DueDate != nil {
		set["dueDate"] = *patch.DueDate
	}
	if patch.Status != nil {
		set["status"] = *patch.Status
	}

	var doc taskDoc
	err := s.tasks.FindOneAndUpdate(ctx,
		bson.M{"_id": id, "project": projectID},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&doc)
	if err != nil {
		return nil, notFound(err)
	}
	t := doc.task()
	return &t, nil
}

func (s *Store) DeleteTask(ctx context.Context, projectID, id string) (bool, error) {
	res, err := s.tasks.DeleteOne(ctx, bson.M{"_id": id, "project": projectID})
	if err != nil {
		return false, fmt.Errorf("delete task: %w", err)
	}
	return res.DeletedCount > 0, nil
}

func (s *Store) DeleteTasksByProject(ctx context.Context, projectID string) (int64, error) {
	res, err := s.tasks.DeleteMany(ctx, bson.M{"project": projectID})
	if err != nil {
		return 0, fmt.Errorf("delete tasks for project: %w", err)
	}
	return res.DeletedCount, nil
}

func (s *Store) OverdueTasks(ctx context.Context, projectIDs []string, now time.Time) ([]taskdomain.Task, error) {
	if len(projectIDs) == 0 {
		return []taskdomain.Task{}, nil
	}
	filter := bson.M{
		"project": bson.M{"$in": projectIDs},
		"dueDate": bson.M{"$lt": now},
		"status":  bson.M{"$ne": taskdomain.StatusDone},
	}
	return s.findTasks(ctx, filter, bson.D{{Key: "dueDate", Value: 1}, {Key: "_id", Value: 1}})
}
