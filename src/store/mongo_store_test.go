package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"forms-backend/src/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

func formDoc(id primitive.ObjectID, folder string) bson.D {
	return bson.D{
		{Key: "_id", Value: id},
		{Key: "folderName", Value: folder},
		{Key: "schemaJson", Value: bson.A{
			bson.D{{Key: "id", Value: "name"}, {Key: "type", Value: "text"}, {Key: "label", Value: "Name"}, {Key: "required", Value: true}},
		}},
		{Key: "createdAt", Value: primitive.NewDateTimeFromTime(time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC))},
	}
}

func TestMongoForms(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	ns := "formsdb.forms"

	mt.Run("GetAll", func(mt *mtest.T) {
		forms := NewMongoStore(mt.DB, MongoOptions{}).Forms()
		first, second := primitive.NewObjectID(), primitive.NewObjectID()
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch,
			formDoc(first, "Marketing"), formDoc(second, "HR")))

		list, err := forms.GetAll(context.Background())
		require.NoError(mt, err)
		require.Len(mt, list, 2)
		assert.Equal(mt, first.Hex(), list[0].ID)
		assert.Equal(mt, "HR", list[1].FolderName)
		require.Len(mt, list[0].SchemaJSON, 1)
		assert.True(mt, list[0].SchemaJSON[0].Required)
	})

	mt.Run("GetByID not found", func(mt *mtest.T) {
		forms := NewMongoStore(mt.DB, MongoOptions{}).Forms()
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch))

		_, err := forms.GetByID(context.Background(), primitive.NewObjectID().Hex())
		assert.ErrorIs(mt, err, ErrNotFound)

		// malformed ids never reach the server
		_, err = forms.GetByID(context.Background(), "form_1")
		assert.ErrorIs(mt, err, ErrNotFound)
	})

	mt.Run("Create", func(mt *mtest.T) {
		forms := NewMongoStore(mt.DB, MongoOptions{}).Forms()
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		created, err := forms.Create(context.Background(), models.Form{
			SchemaJSON: []models.FieldDefinition{{ID: "a", Type: models.FieldTypeText}},
		})
		require.NoError(mt, err)
		assert.Len(mt, created.ID, 24)
		assert.Equal(mt, models.DefaultFolderName, created.FolderName)
	})

	mt.Run("Create rejects invalid form without a round trip", func(mt *mtest.T) {
		forms := NewMongoStore(mt.DB, MongoOptions{}).Forms()

		_, err := forms.Create(context.Background(), models.Form{FolderName: "X"})
		var verr *ValidationError
		assert.True(mt, errors.As(err, &verr))
	})

	mt.Run("Delete cascades", func(mt *mtest.T) {
		forms := NewMongoStore(mt.DB, MongoOptions{}).Forms()
		id := primitive.NewObjectID()
		mt.AddMockResponses(
			mtest.CreateSuccessResponse(bson.E{Key: "value", Value: formDoc(id, "Support")}),
			mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 2}),
		)

		deleted, err := forms.Delete(context.Background(), id.Hex())
		require.NoError(mt, err)
		assert.Equal(mt, id.Hex(), deleted.ID)
		assert.Equal(mt, "Support", deleted.FolderName)
	})

	mt.Run("Delete missing", func(mt *mtest.T) {
		forms := NewMongoStore(mt.DB, MongoOptions{}).Forms()
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "value", Value: nil}))

		_, err := forms.Delete(context.Background(), primitive.NewObjectID().Hex())
		assert.ErrorIs(mt, err, ErrNotFound)
	})

	mt.Run("DistinctFolderNames", func(mt *mtest.T) {
		forms := NewMongoStore(mt.DB, MongoOptions{}).Forms()
		mt.AddMockResponses(mtest.CreateSuccessResponse(
			bson.E{Key: "values", Value: bson.A{"Support", "", "HR", nil}},
		))

		folders, err := forms.DistinctFolderNames(context.Background())
		require.NoError(mt, err)
		assert.Equal(mt, []string{"HR", "Support"}, folders)
	})

	mt.Run("BackfillFolderNames", func(mt *mtest.T) {
		forms := NewMongoStore(mt.DB, MongoOptions{}).Forms()
		mt.AddMockResponses(mtest.CreateSuccessResponse(
			bson.E{Key: "n", Value: 3},
			bson.E{Key: "nModified", Value: 3},
		))

		n, err := forms.BackfillFolderNames(context.Background())
		require.NoError(mt, err)
		assert.Equal(mt, 3, n)
	})
}

func TestMongoResponses(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	ns := "formsdb.responses"

	mt.Run("Create checks the form exists", func(mt *mtest.T) {
		responses := NewMongoStore(mt.DB, MongoOptions{}).Responses()
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "formsdb.forms", mtest.FirstBatch))

		_, err := responses.Create(context.Background(), models.Submission{
			Form: primitive.NewObjectID().Hex(), SubmitterName: "A", SubmitterEmail: "a@b.c",
		})
		var verr *ValidationError
		require.True(mt, errors.As(err, &verr), "got %v", err)
		assert.Equal(mt, "form", verr.Field)
	})

	mt.Run("Create", func(mt *mtest.T) {
		responses := NewMongoStore(mt.DB, MongoOptions{}).Responses()
		formID := primitive.NewObjectID().Hex()
		mt.AddMockResponses(
			mtest.CreateCursorResponse(0, "formsdb.forms", mtest.FirstBatch, bson.D{{Key: "n", Value: 1}}),
			mtest.CreateSuccessResponse(),
		)

		created, err := responses.Create(context.Background(), models.Submission{
			Form: formID, SubmitterName: " Jane ", SubmitterEmail: "jane@x.io",
		})
		require.NoError(mt, err)
		assert.Equal(mt, formID, created.Form)
		assert.Equal(mt, "Jane", created.SubmitterName)
		assert.NotNil(mt, created.Answers)
		assert.Len(mt, created.ID, 24)
	})

	mt.Run("Create with non-hex form id", func(mt *mtest.T) {
		responses := NewMongoStore(mt.DB, MongoOptions{}).Responses()

		_, err := responses.Create(context.Background(), models.Submission{
			Form: "form_1", SubmitterName: "A", SubmitterEmail: "a@b.c",
		})
		var verr *ValidationError
		assert.True(mt, errors.As(err, &verr))
	})

	mt.Run("GetByForm decodes refs", func(mt *mtest.T) {
		responses := NewMongoStore(mt.DB, MongoOptions{}).Responses()
		formID := primitive.NewObjectID()
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch,
			bson.D{
				{Key: "_id", Value: primitive.NewObjectID()},
				{Key: "form", Value: formID},
				{Key: "bundle", Value: "bundle-1"},
				{Key: "filledBy", Value: nil},
				{Key: "submitterName", Value: "Ann"},
				{Key: "submitterEmail", Value: "ann@x.io"},
				{Key: "answers", Value: bson.D{{Key: "q1", Value: "yes"}}},
				{Key: "submittedAt", Value: primitive.NewDateTimeFromTime(time.Now())},
			},
		))

		list, err := responses.GetByForm(context.Background(), formID.Hex())
		require.NoError(mt, err)
		require.Len(mt, list, 1)
		assert.Equal(mt, formID.Hex(), list[0].Form)
		require.NotNil(mt, list[0].Bundle)
		assert.Equal(mt, "bundle-1", *list[0].Bundle)
		assert.Nil(mt, list[0].FilledBy)
		assert.Equal(mt, "yes", list[0].Answers["q1"])
	})

	mt.Run("GetByBundle empty", func(mt *mtest.T) {
		responses := NewMongoStore(mt.DB, MongoOptions{}).Responses()
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch))

		list, err := responses.GetByBundle(context.Background(), "nothing")
		require.NoError(mt, err)
		assert.NotNil(mt, list)
		assert.Empty(mt, list)
	})

	mt.Run("server error is not a client error", func(mt *mtest.T) {
		responses := NewMongoStore(mt.DB, MongoOptions{}).Responses()
		mt.AddMockResponses(mtest.CreateCommandErrorResponse(mtest.CommandError{
			Code: 2, Name: "BadValue", Message: "boom",
		}))

		_, err := responses.GetAll(context.Background())
		require.Error(mt, err)
		var verr *ValidationError
		assert.False(mt, errors.As(err, &verr))
		assert.NotErrorIs(mt, err, ErrNotFound)
	})
}

func TestRefHelpers(t *testing.T) {
	oid := primitive.NewObjectID()

	assert.Equal(t, oid, refValue(oid.Hex()))
	assert.Equal(t, "form_1", refValue("form_1"))
	assert.Nil(t, optionalRef(nil))

	assert.Equal(t, bson.M{"form": bson.M{"$in": bson.A{oid, oid.Hex()}}}, refFilter("form", oid.Hex()))
	assert.Equal(t, bson.M{"bundle": "b-1"}, refFilter("bundle", "b-1"))

	assert.Equal(t, oid.Hex(), refString(oid))
	assert.Nil(t, optionalRefString(nil))
}

func TestWrapMongoErr(t *testing.T) {
	assert.NoError(t, wrapMongoErr(nil))

	err := wrapMongoErr(context.DeadlineExceeded)
	assert.ErrorIs(t, err, ErrBackendUnavailable)

	plain := errors.New("duplicate key")
	assert.Equal(t, plain, wrapMongoErr(plain))
}
