package mongo

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	domaincar "fleetrent/internal/domain/car"
	domainuser "fleetrent/internal/domain/user"
)

type UserRepository struct {
	col *mongo.Collection
}

func NewUserRepository(db *mongo.Database) *UserRepository {
	col := db.Collection("agg_user")
	_, _ = col.Indexes().CreateOne(context.Background(), mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	_, _ = col.Indexes().CreateOne(context.Background(), mongo.IndexModel{
		Keys: bson.D{{Key: "role", Value: 1}, {Key: "company_id", Value: 1}},
	})
	return &UserRepository{col: col}
}

func (r *UserRepository) ByID(ctx context.Context, id domainuser.ID) (*domainuser.User, error) {
	var doc userDocument
	if err := r.col.FindOne(ctx, bson.M{"_id": string(id)}).Decode(&doc); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domainuser.ErrNotFound
		}
		return nil, err
	}
	return doc.toUser(), nil
}

func (r *UserRepository) ByEmail(ctx context.Context, email string) (*domainuser.User, error) {
	var doc userDocument
	filter := bson.M{"email": domainuser.NormalizeEmail(email)}
	if err := r.col.FindOne(ctx, filter).Decode(&doc); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domainuser.ErrNotFound
		}
		return nil, err
	}
	return doc.toUser(), nil
}

func (r *UserRepository) Save(ctx context.Context, u *domainuser.User) error {
	doc := newUserDocument(u)
	filter := bson.M{"_id": doc.ID}
	update := bson.M{"$set": doc}
	_, err := r.col.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domainuser.ErrEmailAlreadyUsed
		}
		return err
	}
	return nil
}

func (r *UserRepository) List(ctx context.Context, params domainuser.ListParams) ([]*domainuser.User, int, error) {
	filter := bson.M{"deleted": false}
	if params.Role != "" {
		filter["role"] = string(params.Role)
	}
	if params.CompanyID != "" {
		filter["company_id"] = string(params.CompanyID)
	}
	total, err := r.col.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	if params.Offset > 0 {
		opts = opts.SetSkip(int64(params.Offset))
	}
	if params.Limit > 0 {
		opts = opts.SetLimit(int64(params.Limit))
	}
	cursor, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)
	var out []*domainuser.User
	for cursor.Next(ctx) {
		var doc userDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, 0, err
		}
		out = append(out, doc.toUser())
	}
	return out, int(total), cursor.Err()
}

type userDocument struct {
	ID           string `bson:"_id"`
	Email        string `bson:"email"`
	Phone        string `bson:"phone"`
	Name         string `bson:"name"`
	PasswordHash string `bson:"password_hash"`
	Role         string `bson:"role"`
	CompanyID    string `bson:"company_id"`
	DeviceToken  string `bson:"device_token"`
	Verified     bool   `bson:"verified"`
	Deleted      bool   `bson:"deleted"`
	CreatedAt    int64  `bson:"created_at"`
	UpdatedAt    int64  `bson:"updated_at"`
}

func newUserDocument(u *domainuser.User) userDocument {
	return userDocument{
		ID:           string(u.ID),
		Email:        u.Email,
		Phone:        u.Phone,
		Name:         u.Name,
		PasswordHash: u.PasswordHash,
		Role:         string(u.Role),
		CompanyID:    string(u.CompanyID),
		DeviceToken:  u.DeviceToken,
		Verified:     u.Verified,
		Deleted:      u.Deleted,
		CreatedAt:    u.CreatedAt.UnixMilli(),
		UpdatedAt:    u.UpdatedAt.UnixMilli(),
	}
}

func (d userDocument) toUser() *domainuser.User {
	return &domainuser.User{
		ID:           domainuser.ID(d.ID),
		Email:        d.Email,
		Phone:        d.Phone,
		Name:         d.Name,
		PasswordHash: d.PasswordHash,
		Role:         domainuser.Role(d.Role),
		CompanyID:    domaincar.CompanyID(d.CompanyID),
		DeviceToken:  d.DeviceToken,
		Verified:     d.Verified,
		Deleted:      d.Deleted,
		CreatedAt:    timestampToTime(d.CreatedAt),
		UpdatedAt:    timestampToTime(d.UpdatedAt),
	}
}
