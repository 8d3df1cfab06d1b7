// Package mongo implements the storage ports on MongoDB document
// collections. Collections are transactions, budgets, goals, and profiles,
// every document carrying the owning user's email. Amounts are stored as
// decimal strings to avoid floating-point drift.
package mongo

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"fintrack/internal/core"
	"fintrack/internal/store"
)

// connectTimeout keeps startup snappy: an unreachable database should fail
// fast so the caller can fall back to the memory store.
const connectTimeout = 2 * time.Second

type Store struct {
	client       *mongo.Client
	transactions *mongo.Collection
	budgets      *mongo.Collection
	goals        *mongo.Collection
	profiles     *mongo.Collection
}

// New connects to MongoDB and pings it. The error is returned (not fatal)
// so the backend factory can decide to fall back.
func New(ctx context.Context, uri, dbName string) (*Store, error) {
	opts := options.Client().
		ApplyURI(uri).
		SetServerSelectionTimeout(connectTimeout).
		SetConnectTimeout(connectTimeout)

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("connect mongodb: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()
	if err := client.Ping(pingCtx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping mongodb: %w", err)
	}

	db := client.Database(dbName)
	return &Store{
		client:       client,
		transactions: db.Collection("transactions"),
		budgets:      db.Collection("budgets"),
		goals:        db.Collection("goals"),
		profiles:     db.Collection("profiles"),
	}, nil
}

// Close disconnects the underlying client.
func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

// Ping verifies the connection, used by the readiness probe.
func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, nil)
}

// Document shapes. Amounts travel as strings; dates as BSON datetimes.
type (
	transactionDoc struct {
		ID        primitive.ObjectID `bson:"_id,omitempty"`
		UserEmail string             `bson:"user_email"`
		Type      string             `bson:"type"`
		Category  string             `bson:"category"`
		Amount    string             `bson:"amount"`
		Date      time.Time          `bson:"date"`
		Note      string             `bson:"note,omitempty"`
		Frequency string             `bson:"frequency,omitempty"`
	}

	budgetDoc struct {
		UserEmail string `bson:"user_email"`
		Category  string `bson:"category"`
		Limit     string `bson:"limit"`
	}

	goalDoc struct {
		ID        primitive.ObjectID `bson:"_id,omitempty"`
		UserEmail string             `bson:"user_email"`
		Name      string             `bson:"name"`
		Target    string             `bson:"target"`
		Current   string             `bson:"current"`
		Deadline  *time.Time         `bson:"deadline,omitempty"`
	}

	profileDoc struct {
		UserEmail   string    `bson:"user_email"`
		Name        string    `bson:"name"`
		MemberSince time.Time `bson:"member_since"`
		Currency    string    `bson:"currency"`
		Language    string    `bson:"language"`
	}
)

func toTransactionDoc(t core.Transaction) transactionDoc {
	return transactionDoc{
		UserEmail: t.UserEmail,
		Type:      string(t.Type),
		Category:  t.Category,
		Amount:    t.Amount.String(),
		Date:      t.Date.UTC(),
		Note:      t.Note,
		Frequency: string(t.Frequency),
	}
}

func (d transactionDoc) toCore() (core.Transaction, error) {
	amount, err := decimal.NewFromString(d.Amount)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("decode amount %q: %w", d.Amount, err)
	}
	return core.Transaction{
		ID:        d.ID.Hex(),
		UserEmail: d.UserEmail,
		Type:      core.TransactionType(d.Type),
		Category:  d.Category,
		Amount:    amount,
		Date:      d.Date,
		Note:      d.Note,
		Frequency: core.Frequency(d.Frequency),
	}, nil
}

func (d goalDoc) toCore() (core.Goal, error) {
	target, err := decimal.NewFromString(d.Target)
	if err != nil {
		return core.Goal{}, fmt.Errorf("decode target %q: %w", d.Target, err)
	}
	current, err := decimal.NewFromString(d.Current)
	if err != nil {
		return core.Goal{}, fmt.Errorf("decode current %q: %w", d.Current, err)
	}
	g := core.Goal{
		ID:        d.ID.Hex(),
		UserEmail: d.UserEmail,
		Name:      d.Name,
		Target:    target,
		Current:   current,
	}
	if d.Deadline != nil {
		g.Deadline = *d.Deadline
	}
	return g, nil
}

func toGoalDoc(g core.Goal) goalDoc {
	d := goalDoc{
		UserEmail: g.UserEmail,
		Name:      g.Name,
		Target:    g.Target.String(),
		Current:   g.Current.String(),
	}
	if !g.Deadline.IsZero() {
		dl := g.Deadline.UTC()
		d.Deadline = &dl
	}
	return d
}

// AddTransaction implements store.TransactionStore.
func (s *Store) AddTransaction(ctx context.Context, t core.Transaction) (string, error) {
	if err := t.Validate(); err != nil {
		return "", err
	}
	res, err := s.transactions.InsertOne(ctx, toTransactionDoc(t))
	if err != nil {
		return "", fmt.Errorf("insert transaction: %w", err)
	}
	id := res.InsertedID.(primitive.ObjectID).Hex()
	slog.InfoContext(ctx, "Transaction saved",
		"id", id,
		"type", t.Type,
		"category", t.Category,
		"amount", t.Amount.String())
	return id, nil
}

// ListTransactions implements store.TransactionStore.
func (s *Store) ListTransactions(ctx context.Context, email string) ([]core.Transaction, error) {
	opts := options.Find().SetSort(bson.D{{Key: "date", Value: -1}})
	cur, err := s.transactions.Find(ctx, bson.M{"user_email": email}, opts)
	if err != nil {
		return nil, fmt.Errorf("find transactions: %w", err)
	}
	defer cur.Close(ctx)

	var out []core.Transaction
	for cur.Next(ctx) {
		var d transactionDoc
		if err := cur.Decode(&d); err != nil {
			return nil, fmt.Errorf("decode transaction: %w", err)
		}
		t, err := d.toCore()
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("iterate transactions: %w", err)
	}
	return out, nil
}

// DeleteTransaction implements store.TransactionStore.
func (s *Store) DeleteTransaction(ctx context.Context, email, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return store.ErrNotFound
	}
	res, err := s.transactions.DeleteOne(ctx, bson.M{"_id": oid, "user_email": email})
	if err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}
	if res.DeletedCount == 0 {
		return store.ErrNotFound
	}
	return nil
}

// UpsertBudget implements store.BudgetStore.
func (s *Store) UpsertBudget(ctx context.Context, b core.Budget) error {
	if err := b.Validate(); err != nil {
		return err
	}
	filter := bson.M{"user_email": b.UserEmail, "category": b.Category}
	update := bson.M{"$set": budgetDoc{
		UserEmail: b.UserEmail,
		Category:  b.Category,
		Limit:     b.Limit.String(),
	}}
	_, err := s.budgets.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("upsert budget: %w", err)
	}
	return nil
}

// ListBudgets implements store.BudgetStore. A user with no budget documents
// gets the default budget written and returned.
func (s *Store) ListBudgets(ctx context.Context, email string) ([]core.Budget, error) {
	cur, err := s.budgets.Find(ctx, bson.M{"user_email": email})
	if err != nil {
		return nil, fmt.Errorf("find budgets: %w", err)
	}
	defer cur.Close(ctx)

	byCat := make(map[string]core.Budget)
	for cur.Next(ctx) {
		var d budgetDoc
		if err := cur.Decode(&d); err != nil {
			return nil, fmt.Errorf("decode budget: %w", err)
		}
		limit, err := decimal.NewFromString(d.Limit)
		if err != nil {
			return nil, fmt.Errorf("decode limit %q: %w", d.Limit, err)
		}
		byCat[d.Category] = core.Budget{UserEmail: d.UserEmail, Category: d.Category, Limit: limit}
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("iterate budgets: %w", err)
	}

	if len(byCat) == 0 {
		return s.seedBudgets(ctx, email)
	}

	// Stable category order for display.
	out := make([]core.Budget, 0, len(byCat))
	for _, cat := range core.ExpenseCategories {
		if b, ok := byCat[cat]; ok {
			out = append(out, b)
		}
	}
	return out, nil
}

func (s *Store) seedBudgets(ctx context.Context, email string) ([]core.Budget, error) {
	defaults := core.DefaultBudget(email)
	docs := make([]interface{}, 0, len(defaults))
	for _, b := range defaults {
		docs = append(docs, budgetDoc{UserEmail: b.UserEmail, Category: b.Category, Limit: b.Limit.String()})
	}
	if _, err := s.budgets.InsertMany(ctx, docs); err != nil {
		return nil, fmt.Errorf("seed budgets: %w", err)
	}
	slog.InfoContext(ctx, "Seeded default budget", "user", email)
	return defaults, nil
}

// AddGoal implements store.GoalStore.
func (s *Store) AddGoal(ctx context.Context, g core.Goal) (string, error) {
	if err := g.Validate(); err != nil {
		return "", err
	}
	res, err := s.goals.InsertOne(ctx, toGoalDoc(g))
	if err != nil {
		return "", fmt.Errorf("insert goal: %w", err)
	}
	return res.InsertedID.(primitive.ObjectID).Hex(), nil
}

// ListGoals implements store.GoalStore, seeding the default goals for a
// fresh user.
func (s *Store) ListGoals(ctx context.Context, email string) ([]core.Goal, error) {
	cur, err := s.goals.Find(ctx, bson.M{"user_email": email})
	if err != nil {
		return nil, fmt.Errorf("find goals: %w", err)
	}
	defer cur.Close(ctx)

	var out []core.Goal
	for cur.Next(ctx) {
		var d goalDoc
		if err := cur.Decode(&d); err != nil {
			return nil, fmt.Errorf("decode goal: %w", err)
		}
		g, err := d.toCore()
		if err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("iterate goals: %w", err)
	}

	if len(out) == 0 {
		return s.seedGoals(ctx, email)
	}
	return out, nil
}

func (s *Store) seedGoals(ctx context.Context, email string) ([]core.Goal, error) {
	defaults := core.DefaultGoals(email)
	out := make([]core.Goal, 0, len(defaults))
	for _, g := range defaults {
		res, err := s.goals.InsertOne(ctx, toGoalDoc(g))
		if err != nil {
			return nil, fmt.Errorf("seed goal: %w", err)
		}
		g.ID = res.InsertedID.(primitive.ObjectID).Hex()
		out = append(out, g)
	}
	slog.InfoContext(ctx, "Seeded default goals", "user", email)
	return out, nil
}

// UpdateGoal implements store.GoalStore.
func (s *Store) UpdateGoal(ctx context.Context, g core.Goal) error {
	if err := g.Validate(); err != nil {
		return err
	}
	oid, err := primitive.ObjectIDFromHex(g.ID)
	if err != nil {
		return store.ErrNotFound
	}
	filter := bson.M{"_id": oid, "user_email": g.UserEmail}
	res, err := s.goals.UpdateOne(ctx, filter, bson.M{"$set": toGoalDoc(g)})
	if err != nil {
		return fmt.Errorf("update goal: %w", err)
	}
	if res.MatchedCount == 0 {
		return store.ErrNotFound
	}
	return nil
}

// DeleteGoal implements store.GoalStore.
func (s *Store) DeleteGoal(ctx context.Context, email, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return store.ErrNotFound
	}
	res, err := s.goals.DeleteOne(ctx, bson.M{"_id": oid, "user_email": email})
	if err != nil {
		return fmt.Errorf("delete goal: %w", err)
	}
	if res.DeletedCount == 0 {
		return store.ErrNotFound
	}
	return nil
}

// GetProfile implements store.ProfileStore.
func (s *Store) GetProfile(ctx context.Context, email string) (core.Profile, error) {
	var d profileDoc
	err := s.profiles.FindOne(ctx, bson.M{"user_email": email}).Decode(&d)
	if errors.Is(err, mongo.ErrNoDocuments) {
		p := core.NewProfile(email, time.Now().UTC())
		if err := s.SaveProfile(ctx, p); err != nil {
			return core.Profile{}, err
		}
		return p, nil
	}
	if err != nil {
		return core.Profile{}, fmt.Errorf("find profile: %w", err)
	}
	return core.Profile{
		UserEmail:   d.UserEmail,
		Name:        d.Name,
		MemberSince: d.MemberSince,
		Currency:    d.Currency,
		Language:    d.Language,
	}, nil
}

// SaveProfile implements store.ProfileStore.
func (s *Store) SaveProfile(ctx context.Context, p core.Profile) error {
	filter := bson.M{"user_email": p.UserEmail}
	update := bson.M{"$set": profileDoc{
		UserEmail:   p.UserEmail,
		Name:        p.Name,
		MemberSince: p.MemberSince.UTC(),
		Currency:    p.Currency,
		Language:    p.Language,
	}}
	_, err := s.profiles.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("save profile: %w", err)
	}
	return nil
}
