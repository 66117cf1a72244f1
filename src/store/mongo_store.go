package store

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"
	"time"

	"forms-backend/src/models"
	"forms-backend/src/seeder"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// collection names
const (
	FormsCollection     = "forms"
	ResponsesCollection = "responses"
)

// MongoOptions tunes the durable backend.
type MongoOptions struct {
	// QueryTimeout bounds every single store operation. Zero means 5s.
	QueryTimeout time.Duration
	// UseTransactions runs the form delete cascade inside a transaction.
	// Requires a replica set or sharded cluster.
	UseTransactions bool
}

// MongoStore is the durable backend.
type MongoStore struct {
	db              *mongo.Database
	forms           *mongo.Collection
	responses       *mongo.Collection
	timeout         time.Duration
	useTransactions bool
	now             func() time.Time
}

type formDocument struct {
	ID         primitive.ObjectID       `bson:"_id,omitempty"`
	FolderName string                   `bson:"folderName"`
	SchemaJSON []models.FieldDefinition `bson:"schemaJson"`
	CreatedAt  time.Time                `bson:"createdAt"`
}

// form, bundle and filledBy hold an ObjectID when the reference is a valid
// hex id and the raw string otherwise; nil when absent.
type responseDocument struct {
	ID             primitive.ObjectID     `bson:"_id,omitempty"`
	Form           interface{}            `bson:"form"`
	Bundle         interface{}            `bson:"bundle"`
	FilledBy       interface{}            `bson:"filledBy"`
	SubmitterName  string                 `bson:"submitterName,omitempty"`
	SubmitterEmail string                 `bson:"submitterEmail,omitempty"`
	Answers        map[string]interface{} `bson:"answers"`
	SubmittedAt    time.Time              `bson:"submittedAt"`
}

// NewMongoStore wraps an already connected database.
func NewMongoStore(db *mongo.Database, opts MongoOptions) *MongoStore {
	if opts.QueryTimeout <= 0 {
		opts.QueryTimeout = 5 * time.Second
	}
	return &MongoStore{
		db:              db,
		forms:           db.Collection(FormsCollection),
		responses:       db.Collection(ResponsesCollection),
		timeout:         opts.QueryTimeout,
		useTransactions: opts.UseTransactions,
		now:             time.Now,
	}
}

// Forms returns the form view of the store.
func (s *MongoStore) Forms() FormStore { return mongoForms{s} }

// Responses returns the response view of the store.
func (s *MongoStore) Responses() ResponseStore { return mongoResponses{s} }

func (s *MongoStore) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, s.timeout)
}

// EnsureIndexes creates the indexes used by the by-form and by-bundle queries.
func (s *MongoStore) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	_, err := s.responses.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "form", Value: 1}, {Key: "submittedAt", Value: -1}}},
		{Keys: bson.D{{Key: "bundle", Value: 1}, {Key: "submittedAt", Value: -1}}},
	})
	return wrapMongoErr(err)
}

// SeedIfEmpty inserts the sample data set when the forms collection is empty.
func (s *MongoStore) SeedIfEmpty(ctx context.Context) (bool, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	existing, err := s.forms.CountDocuments(ctx, bson.M{})
	if err != nil {
		return false, wrapMongoErr(err)
	}
	if existing > 0 {
		log.Printf("Database already has %d forms, skipping seed", existing)
		return false, nil
	}

	sample := seeder.SampleForms()
	formDocs := make([]interface{}, 0, len(sample))
	ids := make([]string, 0, len(sample))
	for _, f := range sample {
		doc := toFormDocument(f)
		doc.ID = primitive.NewObjectID()
		ids = append(ids, doc.ID.Hex())
		formDocs = append(formDocs, doc)
	}
	if _, err := s.forms.InsertMany(ctx, formDocs); err != nil {
		return false, wrapMongoErr(err)
	}

	responses := seeder.SampleResponses(ids)
	if len(responses) > 0 {
		respDocs := make([]interface{}, 0, len(responses))
		for _, r := range responses {
			doc := toResponseDocument(r)
			doc.ID = primitive.NewObjectID()
			respDocs = append(respDocs, doc)
		}
		if _, err := s.responses.InsertMany(ctx, respDocs); err != nil {
			return false, wrapMongoErr(err)
		}
	}
	log.Printf("✅ Seeded %d sample forms and %d sample responses", len(formDocs), len(responses))
	return true, nil
}

func wrapMongoErr(err error) error {
	if err == nil {
		return nil
	}
	if mongo.IsNetworkError(err) || mongo.IsTimeout(err) || errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", ErrBackendUnavailable, err)
	}
	return err
}

// refValue stores valid hex ids as ObjectIDs, matching documents written by mongoose refs.
func refValue(id string) interface{} {
	if oid, err := primitive.ObjectIDFromHex(id); err == nil {
		return oid
	}
	return id
}

func optionalRef(id *string) interface{} {
	if id == nil {
		return nil
	}
	return refValue(*id)
}

// refFilter matches a reference field stored either as ObjectID or as string.
func refFilter(field, id string) bson.M {
	if oid, err := primitive.ObjectIDFromHex(id); err == nil {
		return bson.M{field: bson.M{"$in": bson.A{oid, id}}}
	}
	return bson.M{field: id}
}

func refString(v interface{}) string {
	switch t := v.(type) {
	case primitive.ObjectID:
		return t.Hex()
	case string:
		return t
	default:
		return ""
	}
}

func optionalRefString(v interface{}) *string {
	s := refString(v)
	if s == "" {
		return nil
	}
	return &s
}

func toFormDocument(f models.Form) formDocument {
	return formDocument{
		FolderName: f.FolderName,
		SchemaJSON: f.SchemaJSON,
		CreatedAt:  f.CreatedAt,
	}
}

func (d formDocument) toModel() models.Form {
	return models.Form{
		ID:         d.ID.Hex(),
		FolderName: d.FolderName,
		SchemaJSON: d.SchemaJSON,
		CreatedAt:  d.CreatedAt,
	}
}

func toResponseDocument(r models.Response) responseDocument {
	return responseDocument{
		Form:           refValue(r.Form),
		Bundle:         optionalRef(r.Bundle),
		FilledBy:       optionalRef(r.FilledBy),
		SubmitterName:  r.SubmitterName,
		SubmitterEmail: r.SubmitterEmail,
		Answers:        r.Answers,
		SubmittedAt:    r.SubmittedAt,
	}
}

func (d responseDocument) toModel() models.Response {
	return models.Response{
		ID:             d.ID.Hex(),
		Form:           refString(d.Form),
		Bundle:         optionalRefString(d.Bundle),
		FilledBy:       optionalRefString(d.FilledBy),
		SubmitterName:  d.SubmitterName,
		SubmitterEmail: d.SubmitterEmail,
		Answers:        d.Answers,
		SubmittedAt:    d.SubmittedAt,
	}
}

// --- forms ---

type mongoForms struct{ s *MongoStore }

func (m mongoForms) GetAll(ctx context.Context) ([]models.Form, error) {
	ctx, cancel := m.s.withTimeout(ctx)
	defer cancel()

	cursor, err := m.s.forms.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, wrapMongoErr(err)
	}
	defer cursor.Close(ctx)

	var docs []formDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, wrapMongoErr(err)
	}
	out := make([]models.Form, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.toModel())
	}
	return out, nil
}

func (m mongoForms) GetByID(ctx context.Context, id string) (*models.Form, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}
	ctx, cancel := m.s.withTimeout(ctx)
	defer cancel()

	var doc formDocument
	if err := m.s.forms.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, wrapMongoErr(err)
	}
	f := doc.toModel()
	return &f, nil
}

func (m mongoForms) Create(ctx context.Context, form models.Form) (*models.Form, error) {
	form, err := prepareForm(form, m.s.now().UTC().Truncate(time.Millisecond))
	if err != nil {
		return nil, err
	}
	ctx, cancel := m.s.withTimeout(ctx)
	defer cancel()

	doc := toFormDocument(form)
	doc.ID = primitive.NewObjectID()
	if _, err := m.s.forms.InsertOne(ctx, doc); err != nil {
		return nil, wrapMongoErr(err)
	}
	created := doc.toModel()
	return &created, nil
}

func (m mongoForms) Update(ctx context.Context, id string, patch models.FormPatch) (*models.Form, error) {
	existing, err := m.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	merged, err := applyPatch(*existing, patch)
	if err != nil {
		return nil, err
	}

	set := bson.M{}
	if patch.FolderName != nil {
		set["folderName"] = merged.FolderName
	}
	if patch.SchemaJSON != nil {
		set["schemaJson"] = merged.SchemaJSON
	}
	if len(set) == 0 {
		return &merged, nil
	}

	ctx, cancel := m.s.withTimeout(ctx)
	defer cancel()
	oid, _ := primitive.ObjectIDFromHex(id)
	res, err := m.s.forms.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": set})
	if err != nil {
		return nil, wrapMongoErr(err)
	}
	if res.MatchedCount == 0 {
		return nil, ErrNotFound
	}
	return &merged, nil
}

func (m mongoForms) Delete(ctx context.Context, id string) (*models.Form, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}
	ctx, cancel := m.s.withTimeout(ctx)
	defer cancel()

	if !m.s.useTransactions {
		return m.deleteCascade(ctx, oid, id)
	}

	session, err := m.s.db.Client().StartSession()
	if err != nil {
		return nil, wrapMongoErr(err)
	}
	defer session.EndSession(ctx)

	result, err := session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		return m.deleteCascade(sc, oid, id)
	})
	if err != nil {
		return nil, err
	}
	return result.(*models.Form), nil
}

// deleteCascade removes the form first, then its responses. Without a
// transaction a concurrent reader may briefly see responses of a deleted form.
func (m mongoForms) deleteCascade(ctx context.Context, oid primitive.ObjectID, id string) (*models.Form, error) {
	var doc formDocument
	if err := m.s.forms.FindOneAndDelete(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, wrapMongoErr(err)
	}
	res, err := m.s.responses.DeleteMany(ctx, refFilter("form", id))
	if err != nil {
		return nil, wrapMongoErr(err)
	}
	log.Printf("[forms] deleted form=%s cascaded responses=%d", id, res.DeletedCount)
	f := doc.toModel()
	return &f, nil
}

func (m mongoForms) DistinctFolderNames(ctx context.Context) ([]string, error) {
	ctx, cancel := m.s.withTimeout(ctx)
	defer cancel()

	values, err := m.s.forms.Distinct(ctx, "folderName", bson.M{})
	if err != nil {
		return nil, wrapMongoErr(err)
	}
	out := make([]string, 0, len(values))
	for _, v := range values {
		if name, ok := v.(string); ok && name != "" {
			out = append(out, name)
		}
	}
	sort.Strings(out)
	return out, nil
}

var missingFolderFilter = bson.M{"$or": bson.A{
	bson.M{"folderName": bson.M{"$exists": false}},
	bson.M{"folderName": nil},
	bson.M{"folderName": ""},
}}

func (m mongoForms) BackfillFolderNames(ctx context.Context) (int, error) {
	ctx, cancel := m.s.withTimeout(ctx)
	defer cancel()

	res, err := m.s.forms.UpdateMany(ctx, missingFolderFilter,
		bson.M{"$set": bson.M{"folderName": models.DefaultFolderName}})
	if err != nil {
		return 0, wrapMongoErr(err)
	}
	return int(res.ModifiedCount), nil
}

// --- responses ---

type mongoResponses struct{ s *MongoStore }

var newestFirst = bson.D{{Key: "submittedAt", Value: -1}, {Key: "_id", Value: 1}}

func (m mongoResponses) find(ctx context.Context, filter interface{}, opts *options.FindOptions) ([]models.Response, error) {
	ctx, cancel := m.s.withTimeout(ctx)
	defer cancel()

	cursor, err := m.s.responses.Find(ctx, filter, opts)
	if err != nil {
		return nil, wrapMongoErr(err)
	}
	defer cursor.Close(ctx)

	var docs []responseDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, wrapMongoErr(err)
	}
	out := make([]models.Response, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.toModel())
	}
	return out, nil
}

func (m mongoResponses) GetAll(ctx context.Context) ([]models.Response, error) {
	return m.find(ctx, bson.M{}, options.Find().SetSort(newestFirst))
}

func (m mongoResponses) GetByID(ctx context.Context, id string) (*models.Response, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}
	ctx, cancel := m.s.withTimeout(ctx)
	defer cancel()

	var doc responseDocument
	if err := m.s.responses.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, wrapMongoErr(err)
	}
	r := doc.toModel()
	return &r, nil
}

func (m mongoResponses) GetByForm(ctx context.Context, formID string) ([]models.Response, error) {
	return m.find(ctx, refFilter("form", formID), options.Find().SetSort(newestFirst))
}

func (m mongoResponses) GetByBundle(ctx context.Context, bundleID string) ([]models.Response, error) {
	return m.find(ctx, refFilter("bundle", bundleID), options.Find().SetSort(newestFirst))
}

func (m mongoResponses) Create(ctx context.Context, sub models.Submission) (*models.Response, error) {
	resp, err := prepareSubmission(sub, m.s.now().UTC().Truncate(time.Millisecond))
	if err != nil {
		return nil, err
	}
	formOID, err := primitive.ObjectIDFromHex(resp.Form)
	if err != nil {
		return nil, invalid("form", "form not found")
	}

	ctx, cancel := m.s.withTimeout(ctx)
	defer cancel()

	n, err := m.s.forms.CountDocuments(ctx, bson.M{"_id": formOID}, options.Count().SetLimit(1))
	if err != nil {
		return nil, wrapMongoErr(err)
	}
	if n == 0 {
		return nil, invalid("form", "form not found")
	}

	doc := toResponseDocument(resp)
	doc.ID = primitive.NewObjectID()
	if _, err := m.s.responses.InsertOne(ctx, doc); err != nil {
		return nil, wrapMongoErr(err)
	}
	log.Printf("[responses] inserted id=%s form=%s", doc.ID.Hex(), resp.Form)
	created := doc.toModel()
	return &created, nil
}

var legacyResponseFilter = bson.M{"$or": bson.A{
	bson.M{"submitterName": bson.M{"$exists": false}},
	bson.M{"submitterEmail": bson.M{"$exists": false}},
	bson.M{"submitterName": nil},
	bson.M{"submitterEmail": nil},
	bson.M{"submitterName": ""},
	bson.M{"submitterEmail": ""},
	bson.M{"answers": bson.M{"$exists": false}},
}}

func (m mongoResponses) BackfillLegacy(ctx context.Context) (int, error) {
	legacy, err := m.find(ctx, legacyResponseFilter, options.Find())
	if err != nil {
		return 0, err
	}

	ctx, cancel := m.s.withTimeout(ctx)
	defer cancel()

	n := 0
	for _, r := range legacy {
		if !NeedsNormalize(r) {
			continue
		}
		fixed := NormalizeLegacy(r)
		oid, _ := primitive.ObjectIDFromHex(r.ID)
		_, err := m.s.responses.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": bson.M{
			"submitterName":  fixed.SubmitterName,
			"submitterEmail": fixed.SubmitterEmail,
			"answers":        fixed.Answers,
		}})
		if err != nil {
			return n, wrapMongoErr(err)
		}
		n++
	}
	return n, nil
}

func (m mongoResponses) Structure(ctx context.Context, limit int) (*models.StructureReport, error) {
	total, err := func() (int64, error) {
		ctx, cancel := m.s.withTimeout(ctx)
		defer cancel()
		return m.s.responses.CountDocuments(ctx, bson.M{})
	}()
	if err != nil {
		return nil, wrapMongoErr(err)
	}

	opts := options.Find()
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}
	sample, err := m.find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}

	report := &models.StructureReport{
		TotalResponses:  int(total),
		SampleResponses: make([]models.ResponseStructure, 0, len(sample)),
	}
	for _, r := range sample {
		report.SampleResponses = append(report.SampleResponses, structureOf(r))
	}
	return report, nil
}
