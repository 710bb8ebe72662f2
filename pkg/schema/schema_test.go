package schema

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/twmb/franz-go/pkg/sr"
)

type mockSchemaCreater struct {
	mock.Mock
}

func (m *mockSchemaCreater) CreateSchema(
	ctx context.Context, subject string, s sr.Schema,
) (sr.SubjectSchema, error) {
	args := m.Called(ctx, subject, s)
	return args.Get(0).(sr.SubjectSchema), args.Error(1)
}

func TestRegistryIdentifier(t *testing.T) {
	cl := new(mockSchemaCreater)
	subject := ValueSubject("orders")
	cl.On("CreateSchema", t.Context(), subject, sr.Schema{
		Type:   sr.TypeAvro,
		Schema: OrderSchemaTextV1,
	}).Return(sr.SubjectSchema{Subject: subject, ID: 7}, nil)

	id, err := RegistryIdentifier{cl}.DetermineID(
		t.Context(), subject, OrderSchemaTextV1,
	)
	require.NoError(t, err)
	assert.Equal(t, 7, id)
	cl.AssertExpectations(t)
}
