// file: internal/repositories/course_repository.go
package repositories

import (
	"context"
	"time"

	"coursehub/internal/database"
	"coursehub/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

type courseRepository struct {
	*BaseRepository
}

// NewCourseRepository creates a read-only repository over the course catalog
func NewCourseRepository(db *database.Manager, logger *zap.Logger) CourseRepository {
	return &courseRepository{BaseRepository: NewBaseRepository(db, logger)}
}

func (r *courseRepository) GetByID(ctx context.Context, id primitive.ObjectID) (course *models.Course, err error) {
	defer r.observe("courses.get", time.Now(), &err)

	course = &models.Course{}
	err = r.Collection(database.CollCourses).FindOne(ctx, bson.M{"_id": id}).Decode(course)
	if err != nil {
		return nil, err
	}
	return course, nil
}

func (r *courseRepository) Exists(ctx context.Context, id primitive.ObjectID) (exists bool, err error) {
	defer r.observe("courses.exists", time.Now(), &err)

	n, err := r.Collection(database.CollCourses).CountDocuments(ctx, bson.M{"_id": id}, options.Count().SetLimit(1))
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *courseRepository) GetLectureByID(ctx context.Context, id primitive.ObjectID) (lecture *models.Lecture, err error) {
	defer r.observe("lectures.get", time.Now(), &err)

	lecture = &models.Lecture{}
	err = r.Collection(database.CollLectures).FindOne(ctx, bson.M{"_id": id}).Decode(lecture)
	if err != nil {
		return nil, err
	}
	return lecture, nil
}

// GetLectureTitles returns the titles of the given lectures, in store order.
func (r *courseRepository) GetLectureTitles(ctx context.Context, ids []primitive.ObjectID) (titles []string, err error) {
	defer r.observe("lectures.titles", time.Now(), &err)

	if len(ids) == 0 {
		return nil, nil
	}

	opts := options.Find().SetProjection(bson.M{"lectureTitle": 1})
	cursor, err := r.Collection(database.CollLectures).Find(ctx, bson.M{"_id": bson.M{"$in": ids}}, opts)
	if err != nil {
		return nil, err
	}
	var lectures []models.Lecture
	if err = cursor.All(ctx, &lectures); err != nil {
		return nil, err
	}

	titles = make([]string, 0, len(lectures))
	for _, lecture := range lectures {
		titles = append(titles, lecture.LectureTitle)
	}
	return titles, nil
}
