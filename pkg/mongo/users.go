package mongo

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/craftloom/storefront/pkg/models"
	"github.com/craftloom/storefront/pkg/store"
)

func (r *Repo) CreateUser(ctx context.Context, user *models.User) error {
	_, err := r.collection(collUsers).InsertOne(ctx, user)
	if mongo.IsDuplicateKeyError(err) {
		return store.ErrDuplicateEmail
	}
	if err != nil {
		return unavailable("insert user", err)
	}
	return nil
}

func (r *Repo) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := r.collection(collUsers).FindOne(ctx, bson.D{{Key: "email", Value: email}}).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, unavailable("find user", err)
	}
	return &user, nil
}

func (r *Repo) ListUsers(ctx context.Context) ([]models.User, error) {
	cursor, err := r.collection(collUsers).Find(ctx, bson.D{})
	if err != nil {
		return nil, unavailable("list users", err)
	}
	defer cursor.Close(ctx)

	var users []models.User
	if err := cursor.All(ctx, &users); err != nil {
		return nil, unavailable("decode users", err)
	}
	return users, nil
}

func (r *Repo) DeleteUser(ctx context.Context, email string) error {
	if _, err := r.collection(collUsers).DeleteOne(ctx, bson.D{{Key: "email", Value: email}}); err != nil {
		return unavailable("delete user", err)
	}
	return nil
}

func (r *Repo) CreateAdmin(ctx context.Context, admin *models.Admin) error {
	_, err := r.collection(collAdmins).InsertOne(ctx, admin)
	if mongo.IsDuplicateKeyError(err) {
		return store.ErrDuplicateEmail
	}
	if err != nil {
		return unavailable("insert admin", err)
	}
	return nil
}

func (r *Repo) GetAdminByEmail(ctx context.Context, email string) (*models.Admin, error) {
	var admin models.Admin
	err := r.collection(collAdmins).FindOne(ctx, bson.D{{Key: "email", Value: email}}).Decode(&admin)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, unavailable("find admin", err)
	}
	return &admin, nil
}

func (r *Repo) ListAdmins(ctx context.Context) ([]models.Admin, error) {
	cursor, err := r.collection(collAdmins).Find(ctx, bson.D{})
	if err != nil {
		return nil, unavailable("list admins", err)
	}
	defer cursor.Close(ctx)

	var admins []models.Admin
	if err := cursor.All(ctx, &admins); err != nil {
		return nil, unavailable("decode admins", err)
	}
	return admins, nil
}
