package models

import (
	"context"
	"forum-core/apperror"
	"forum-core/helpers"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// User carries only what the core needs: identity, credentials and the
// verified flag that a consumed verification token switches on.
// Profile fields live elsewhere and are of no concern here.
type User struct {
	ID        primitive.ObjectID `json:"id" bson:"_id"`
	LoginName string             `json:"loginName" bson:"loginName" binding:"required"`
	Password  string             `json:"password,omitempty" bson:"password"`
	EMail     string             `json:"eMail,omitempty" bson:"eMail"`
	Verified  bool               `json:"verified" bson:"verified"`
}

// UserModel provides the logic to the interface and access to the database
type UserModel struct {
	Collection *mongo.Collection
}

// CreateUser registers a new user with a hashed password
func (m UserModel) CreateUser(user User) (string, error) {

	user.LoginName = strings.TrimSpace(user.LoginName)
	if user.LoginName == "" {
		return "", ErrInvalidUser
	}
	if len(user.Password) < 8 {
		return "", ErrInvalidPassword
	}

	exists, err := m.UserNameExists(user.LoginName)
	if err != nil {
		return "", err
	}
	if exists {
		return "", ErrUserNameNotAvailable
	}

	user.ID = primitive.NewObjectID()
	user.Verified = false

	user.Password, err = helpers.GenerateHash(user.Password)
	if err != nil {
		return "", helpers.WrapError(err, helpers.FuncName())
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel() // nach 10 Sekunden abbrechen

	res, err := m.Collection.InsertOne(ctx, user)
	if err != nil {
		return "", helpers.WrapError(err, helpers.FuncName())
	}

	return res.InsertedID.(primitive.ObjectID).Hex(), nil
}

// GetUserByName reads a user for the login flow
func (m UserModel) GetUserByName(loginName string) (*User, error) {

	filter := bson.D{{Key: "loginName", Value: loginName}}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel() // nach 10 Sekunden abbrechen

	user := new(User)
	err := m.Collection.FindOne(ctx, filter).Decode(user)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrInvalidUser
		}
		return nil, helpers.WrapError(err, helpers.FuncName())
	}

	return user, nil
}

// CheckPassword compares a clear-text password with the stored hash
func (m UserModel) CheckPassword(password string, user *User) bool {
	granted, _ := helpers.CompareHash(user.Password, password)
	return granted
}

// GetUserName returns the login name to an ID (injected into other models)
func (m UserModel) GetUserName(ID string) (string, error) {
	return m.GetUserNameOID(helpers.ObjectID(ID))
}

// GetUserNameOID returns the login name to an ObjectID
func (m UserModel) GetUserNameOID(userID primitive.ObjectID) (string, error) {

	fields := bson.D{
		{Key: "_id", Value: 0},
		{Key: "loginName", Value: 1},
	}

	data := struct {
		LoginName string `bson:"loginName"`
	}{}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel() // nach 10 Sekunden abbrechen

	err := m.Collection.FindOne(ctx, bson.D{{Key: "_id", Value: userID}},
		options.FindOne().SetProjection(fields)).Decode(&data)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return "", apperror.ErrNoData
		}
		return "", helpers.WrapError(err, helpers.FuncName())
	}

	return data.LoginName, nil
}

// Exists tells whether a user ID resolves to a stored user
// (injected into the verification model as the subject check)
func (m UserModel) Exists(userID string) (bool, error) {

	oid := helpers.ObjectID(userID)
	if oid == primitive.NilObjectID {
		return false, nil
	}

	_, err := m.GetUserNameOID(oid)
	if err != nil {
		if err == apperror.ErrNoData {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// UserNameExists checks name availability on registration
func (m UserModel) UserNameExists(loginName string) (bool, error) {

	filter := bson.D{{Key: "loginName", Value: loginName}}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel() // nach 10 Sekunden abbrechen

	cnt, err := m.Collection.CountDocuments(ctx, filter, options.Count().SetLimit(1))
	if err != nil {
		return false, helpers.WrapError(err, helpers.FuncName())
	}

	return cnt > 0, nil
}

// SetVerified flags a user after a successful token validation.
// Conditional on verified = false so repeated validations of different
// tokens for the same subject don't issue useless writes.
func (m UserModel) SetVerified(userID string) error {

	filter := bson.D{
		{Key: "_id", Value: helpers.ObjectID(userID)},
		{Key: "verified", Value: false},
	}

	fields := bson.D{
		{Key: "$set", Value: bson.D{{Key: "verified", Value: true}}},
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel() // nach 10 Sekunden abbrechen

	_, err := m.Collection.UpdateOne(ctx, filter, fields)
	if err != nil {
		return helpers.WrapError(err, helpers.FuncName())
	}

	// already-verified users match nothing - that's fine, the flag stays true
	return nil
}
