package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/stitchboard/tailor-admin/internal/core/domain"
	"github.com/stitchboard/tailor-admin/internal/core/ports"
)

const collectionClients = "clients"

type ClientRepository struct {
	col *mongo.Collection
}

func NewClientRepository(db *mongo.Database) *ClientRepository {
	return &ClientRepository{col: db.Collection(collectionClients)}
}

type mongoMeasurements struct {
	Shoulder     *float64 `bson:"shoulder,omitempty"`
	Chest        *float64 `bson:"chest,omitempty"`
	Waist        *float64 `bson:"waist,omitempty"`
	Hips         *float64 `bson:"hips,omitempty"`
	SleeveLength *float64 `bson:"sleeve_length,omitempty"`
	Length       *float64 `bson:"length,omitempty"`
	Neck         *float64 `bson:"neck,omitempty"`
	Cuff         *float64 `bson:"cuff,omitempty"`
}

type mongoCreator struct {
	ID    primitive.ObjectID `bson:"_id"`
	Name  string             `bson:"name"`
	Email string             `bson:"email"`
}

type mongoClient struct {
	ID           primitive.ObjectID `bson:"_id,omitempty"`
	CustomerName string             `bson:"customer_name"`
	Email        string             `bson:"email,omitempty"`
	Phone        string             `bson:"phone,omitempty"`
	Address      string             `bson:"address,omitempty"`
	Notes        string             `bson:"notes,omitempty"`
	Measurements mongoMeasurements  `bson:"measurements"`
	UserID       primitive.ObjectID `bson:"user_id"`
	Creator      []mongoCreator     `bson:"creator,omitempty"`
	CreatedAt    time.Time          `bson:"created_at"`
	UpdatedAt    time.Time          `bson:"updated_at"`
}

func (mc *mongoClient) toDomain() *domain.Client {
	m := mc.Measurements
	c := &domain.Client{
		ID:           mc.ID.Hex(),
		CustomerName: mc.CustomerName,
		Email:        mc.Email,
		Phone:        mc.Phone,
		Address:      mc.Address,
		Notes:        mc.Notes,
		Measurements: domain.Measurements{
			Shoulder:     m.Shoulder,
			Chest:        m.Chest,
			Waist:        m.Waist,
			Hips:         m.Hips,
			SleeveLength: m.SleeveLength,
			Length:       m.Length,
			Neck:         m.Neck,
			Cuff:         m.Cuff,
		},
		UserID:    mc.UserID.Hex(),
		CreatedAt: mc.CreatedAt.UTC(),
		UpdatedAt: mc.UpdatedAt.UTC(),
	}
	if len(mc.Creator) > 0 {
		cr := mc.Creator[0]
		c.Creator = &domain.Creator{ID: cr.ID.Hex(), Name: cr.Name, Email: cr.Email}
	}
	return c
}

func fromDomainMeasurements(m domain.Measurements) mongoMeasurements {
	return mongoMeasurements{
		Shoulder:     m.Shoulder,
		Chest:        m.Chest,
		Waist:        m.Waist,
		Hips:         m.Hips,
		SleeveLength: m.SleeveLength,
		Length:       m.Length,
		Neck:         m.Neck,
		Cuff:         m.Cuff,
	}
}

// Create inserts a measurement record. Email and phone are unique across
// records that carry them.
func (r *ClientRepository) Create(ctx context.Context, c *domain.Client) (*domain.Client, error) {
	owner, err := primitive.ObjectIDFromHex(c.UserID)
	if err != nil {
		return nil, fmt.Errorf("client owner %q: %w", c.UserID, err)
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := mongoClient{
		CustomerName: c.CustomerName,
		Email:        c.Email,
		Phone:        c.Phone,
		Address:      c.Address,
		Notes:        c.Notes,
		Measurements: fromDomainMeasurements(c.Measurements),
		UserID:       owner,
		CreatedAt:    c.CreatedAt,
		UpdatedAt:    c.UpdatedAt,
	}

	res, err := r.col.InsertOne(ctx, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrClientExists
		}
		return nil, fmt.Errorf("insert client: %w", err)
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		doc.ID = oid
	}
	return doc.toDomain(), nil
}

// List returns records matching the filter, newest first. With WithCreator
// the creating account is joined from the users collection.
func (r *ClientRepository) List(ctx context.Context, filter ports.ListClientsFilter) ([]*domain.Client, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	match := bson.M{}
	if filter.UserID != "" {
		owner, err := primitive.ObjectIDFromHex(filter.UserID)
		if err != nil {
			return []*domain.Client{}, nil
		}
		match["user_id"] = owner
	}

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: match}},
		{{Key: "$sort", Value: bson.D{{Key: "created_at", Value: -1}}}},
	}
	if filter.WithCreator {
		pipeline = append(pipeline,
			bson.D{{Key: "$lookup", Value: bson.D{
				{Key: "from", Value: collectionUsers},
				{Key: "localField", Value: "user_id"},
				{Key: "foreignField", Value: "_id"},
				{Key: "pipeline", Value: bson.A{
					bson.D{{Key: "$project", Value: bson.D{{Key: "name", Value: 1}, {Key: "email", Value: 1}}}},
				}},
				{Key: "as", Value: "creator"},
			}}},
		)
	}

	cur, err := r.col.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("list clients: %w", err)
	}
	defer cur.Close(ctx)

	var docs []mongoClient
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode clients: %w", err)
	}

	clients := make([]*domain.Client, len(docs))
	for i := range docs {
		clients[i] = docs[i].toDomain()
	}
	return clients, nil
}

// Update applies only the fields present in the patch.
func (r *ClientRepository) Update(ctx context.Context, id string, patch ports.ClientPatch) (*domain.Client, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrClientNotFound
	}

	set := bson.M{"updated_at": time.Now().UTC()}
	unset := bson.M{}
	setString := func(field string, v *string) {
		if v != nil {
			set[field] = *v
		}
	}
	// An emptied email or phone is removed so it leaves the partial unique index.
	setOptional := func(field string, v *string) {
		switch {
		case v == nil:
		case *v == "":
			unset[field] = ""
		default:
			set[field] = *v
		}
	}
	setFloat := func(field string, v *float64) {
		if v != nil {
			set["measurements."+field] = *v
		}
	}
	setString("customer_name", patch.CustomerName)
	setOptional("email", patch.Email)
	setOptional("phone", patch.Phone)
	setString("address", patch.Address)
	setString("notes", patch.Notes)

	m := patch.Measurements
	setFloat("shoulder", m.Shoulder)
	setFloat("chest", m.Chest)
	setFloat("waist", m.Waist)
	setFloat("hips", m.Hips)
	setFloat("sleeve_length", m.SleeveLength)
	setFloat("length", m.Length)
	setFloat("neck", m.Neck)
	setFloat("cuff", m.Cuff)

	update := bson.M{"$set": set}
	if len(unset) > 0 {
		update["$unset"] = unset
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var mc mongoClient
	if err := r.col.FindOneAndUpdate(ctx, bson.M{"_id": oid}, update, opts).Decode(&mc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrClientNotFound
		}
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrClientExists
		}
		return nil, fmt.Errorf("update client: %w", err)
	}
	return mc.toDomain(), nil
}

func (r *ClientRepository) Delete(ctx context.Context, id string) (*domain.Client, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrClientNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var mc mongoClient
	if err := r.col.FindOneAndDelete(ctx, bson.M{"_id": oid}).Decode(&mc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrClientNotFound
		}
		return nil, fmt.Errorf("delete client: %w", err)
	}
	return mc.toDomain(), nil
}

// EnsureIndexes creates the uniqueness and scoping indexes on the clients
// collection. The unique indexes are partial so records without an email or
// phone never collide.
func (r *ClientRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	partial := func(field string) *options.IndexOptions {
		return options.Index().
			SetUnique(true).
			SetPartialFilterExpression(bson.M{field: bson.M{"$type": "string"}})
	}

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: partial("email")},
		{Keys: bson.D{{Key: "phone", Value: 1}}, Options: partial("phone")},
		{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "created_at", Value: -1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
