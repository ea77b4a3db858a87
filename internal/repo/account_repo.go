package repo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"gopkg.in/DataDog/dd-trace-go.v1/ddtrace/tracer"

	"github.com/tazhibayda/account-service/internal/domain"
)

var ErrEmailExists = errors.New("email already exists")

func (s *Store) CreateAccount(ctx context.Context, a *domain.Account) error {
	sp, ctx := tracer.StartSpanFromContext(ctx, "mongo.accounts.insert",
		tracer.Tag("email", a.Email),
	)
	defer sp.Finish()

	a.CreatedAt = time.Now().UTC()
	res, err := s.colAccounts.InsertOne(ctx, a)
	if IsDup(err) {
		return ErrEmailExists
	}
	if err != nil {
		sp.SetTag("error", err)
		return err
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		a.ID = oid
	}
	return nil
}

func (s *Store) FindAccountByEmail(ctx context.Context, email string) (*domain.Account, error) {
	var a domain.Account
	err := s.colAccounts.FindOne(ctx, bson.M{"email": email}).Decode(&a)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	return &a, err
}

// ConsumeVerificationCode flips the matching account to verified and drops the
// code in one FindOneAndUpdate, so a code can only ever be spent once no
// matter how many verify requests race on it. Returns nil when no unverified
// account holds the code.
func (s *Store) ConsumeVerificationCode(ctx context.Context, code string) (*domain.Account, error) {
	sp, ctx := tracer.StartSpanFromContext(ctx, "mongo.accounts.consume_code")
	defer sp.Finish()

	res := s.colAccounts.FindOneAndUpdate(
		ctx,
		bson.M{"verification_code": code, "verified": false},
		bson.M{"$set": bson.M{"verified": true}, "$unset": bson.M{"verification_code": ""}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	)
	var a domain.Account
	if err := res.Decode(&a); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		sp.SetTag("error", err)
		return nil, err
	}
	return &a, nil
}
