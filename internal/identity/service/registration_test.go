package service_test

import (
	"context"
	"errors"
	"io"
	"fmt"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	certModels "medid/internal/certification/models"
	"medid/internal/documents"
	docmemory "medid/internal/documents/memory"
	"medid/internal/identity/models"
	"medid/internal/identity/service"
	"medid/internal/storage"
	id "medid/pkg/domain"
	dErrors "medid/pkg/domain-errors"
	"medid/pkg/secrets"
	"medid/pkg/testutil"
)

// failingRequests makes the fourth write of medical registration fail.
type failingRequests struct {
	*storage.Memory
}

func (failingRequests) CreateRequest(context.Context, *certModels.Request) error {
	return errors.New("injected failure")
}

// failingPatientProfiles makes the third write of patient registration fail.
type failingPatientProfiles struct {
	*storage.Memory
}

func (failingPatientProfiles) CreatePatientProfile(context.Context, *models.PatientProfile) error {
	return errors.New("injected failure")
}

// failingIdentityDeletes makes account deletion fail after the profile row
// is already gone inside the transaction.
type failingIdentityDeletes struct {
	*storage.Memory
}

func (failingIdentityDeletes) DeleteIdentity(context.Context, id.IdentityID) error {
	return errors.New("injected failure")
}

type fixture struct {
	store  *storage.Memory
	docs   *docmemory.Store
	ledger *docmemory.Ledger
	svc    *service.Service
}

func newFixture(t *testing.T, requests service.CertificationStore) *fixture {
	t.Helper()
	f := &fixture{
		store:  storage.New(),
		docs:   docmemory.New("mem://docs"),
		ledger: docmemory.NewLedger(),
	}
	if requests == nil {
		requests = f.store
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	attacher := documents.NewAttacher(f.docs, documents.WithLedger(f.ledger), documents.WithLogger(logger))
	svc, err := service.New(f.store, requests, f.store, secrets.NewBcrypt(4),
		service.WithLogger(logger),
		service.WithDocumentAttacher(attacher),
	)
	require.NoError(t, err)
	f.svc = svc
	return f
}

// withStore builds a second service over the fixture's committed state with
// store in place of the plain memory store. Transactions still run on the
// fixture's memory store.
func (f *fixture) withStore(t *testing.T, store service.Store) *service.Service {
	t.Helper()
	svc, err := service.New(store, f.store, f.store, secrets.NewBcrypt(4),
		service.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
	)
	require.NoError(t, err)
	return svc
}

func medical(login, contact string) *models.RegisterMedicalRequest {
	return &models.RegisterMedicalRequest{
		Login:         login,
		Secret:        "pw123",
		DisplayName:   "Dr " + login,
		Contact:       contact,
		LicenseNumber: "LIC-9",
		Specialty:     "cardiology",
		Institution:   "General Hospital",
	}
}

func TestPatientRegistrationIsLinked(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	result, err := f.svc.RegisterPatient(ctx, &models.RegisterPatientRequest{
		Login: "ana", Secret: "pw123", DisplayName: "Ana", Contact: "ana@x.io",
	})
	require.NoError(t, err)

	patient, err := f.store.FindPatientView(ctx, result.PatientID)
	require.NoError(t, err)
	assert.Equal(t, result.IdentityID, patient.IdentityID)

	ident, err := f.store.FindIdentity(ctx, result.IdentityID)
	require.NoError(t, err)
	assert.Equal(t, id.RolePatient, ident.Role)

	cred, err := f.store.FindCredentialByLogin(ctx, "ana")
	require.NoError(t, err)
	assert.Equal(t, ident.CredentialID, cred.ID)
	assert.NotEqual(t, "pw123", cred.SecretHash)
}

func TestDuplicateLoginCreatesNothing(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	_, err := f.svc.RegisterPatient(ctx, &models.RegisterPatientRequest{
		Login: "ana", Secret: "pw123", DisplayName: "Ana", Contact: "ana@x.io",
	})
	require.NoError(t, err)

	_, err = f.svc.RegisterPatient(ctx, &models.RegisterPatientRequest{
		Login: "ana", Secret: "other", DisplayName: "Ana Two", Contact: "ana2@x.io",
	})
	assert.True(t, dErrors.HasCode(err, dErrors.CodeConflict))

	patients, err := f.svc.ListPatients(ctx)
	require.NoError(t, err)
	assert.Len(t, patients, 1)
	exists, err := f.store.ContactExists(ctx, "ana2@x.io")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestMedicalRegistrationIsAtomic(t *testing.T) {
	testutil.Given(t, "the certification write fails after three successful writes", func(t *testing.T) {
		f := newFixture(t, failingRequests{})
		ctx := context.Background()

		req := medical("dr1", "dr1@clinic.io")
		req.Document = &documents.Document{FileName: "license.pdf", Data: []byte("%PDF-1.4 test")}
		_, err := f.svc.RegisterMedical(ctx, req)

		testutil.Then(t, "the caller sees an opaque transaction error", func(t *testing.T) {
			assert.True(t, dErrors.HasCode(err, dErrors.CodeTransaction))
		})

		testutil.Then(t, "no rows exist", func(t *testing.T) {
			exists, err := f.store.LoginExists(ctx, "dr1")
			require.NoError(t, err)
			assert.False(t, exists)

			exists, err = f.store.ContactExists(ctx, "dr1@clinic.io")
			require.NoError(t, err)
			assert.False(t, exists)

			requests, err := f.store.ListRequestViews(ctx)
			require.NoError(t, err)
			assert.Empty(t, requests)
		})

		testutil.Then(t, "the uploaded document is queued for cleanup", func(t *testing.T) {
			assert.Equal(t, 1, f.docs.Len())
			pending, err := f.ledger.ListPending(ctx, 10)
			require.NoError(t, err)
			require.Len(t, pending, 1)
			assert.Contains(t, pending[0].URL, documents.CertificationFolder)
		})
	})
}

func TestMedicalRegistrationWithDocument(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	req := medical("dr2", "dr2@clinic.io")
	req.Document = &documents.Document{FileName: "license.pdf", Data: []byte("%PDF-1.4 test")}
	result, err := f.svc.RegisterMedical(ctx, req)
	require.NoError(t, err)
	require.NotEmpty(t, result.DocumentURL)

	profile, err := f.store.FindMedicalProfileByIdentity(ctx, result.IdentityID)
	require.NoError(t, err)
	assert.Equal(t, result.DocumentURL, profile.DocumentURL)

	request, err := f.store.FindRequest(ctx, result.RequestID)
	require.NoError(t, err)
	assert.Equal(t, certModels.StatusPending, request.Status)
	assert.Equal(t, result.DocumentURL, request.DocumentURL)

	_, err = f.svc.RegisterMedical(ctx, medical("dr3", "DR2@clinic.io"))
	assert.True(t, dErrors.HasCode(err, dErrors.CodeConflict))
}

func TestDeletePatientAccount(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	result, err := f.svc.RegisterPatient(ctx, &models.RegisterPatientRequest{
		Login: "ana", Secret: "pw123", DisplayName: "Ana", Contact: "ana@x.io",
	})
	require.NoError(t, err)

	require.NoError(t, f.svc.DeletePatientAccount(ctx, result.PatientID))

	_, err = f.svc.GetPatient(ctx, result.PatientID)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeNotFound))
	exists, err := f.store.LoginExists(ctx, "ana")
	require.NoError(t, err)
	assert.False(t, exists)

	err = f.svc.DeletePatientAccount(ctx, result.PatientID)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeNotFound))

	_, err = f.svc.RegisterPatient(ctx, &models.RegisterPatientRequest{
		Login: "ana", Secret: "pw123", DisplayName: "Ana", Contact: "ana@x.io",
	})
	assert.NoError(t, err, "login and contact are free again")
}

func TestRegisterAdministratorDerivesName(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	admin, err := f.svc.RegisterAdministrator(ctx, service.RegisterAdministratorRequest{
		Login: "root", Secret: "s3cret", Contact: "jane.doe@medid.io",
	})
	require.NoError(t, err)
	assert.Equal(t, "full", admin.AccessLevel)

	ident, err := f.store.FindIdentity(ctx, admin.IdentityID)
	require.NoError(t, err)
	assert.Equal(t, id.RoleAdministrator, ident.Role)
	assert.NotEmpty(t, ident.DisplayName)
}

func TestPatientRegistrationIsAtomic(t *testing.T) {
	testutil.Given(t, "the patient profile write fails after the credential and identity", func(t *testing.T) {
		f := newFixture(t, nil)
		ctx := context.Background()
		svc := f.withStore(t, failingPatientProfiles{Memory: f.store})

		_, err := svc.RegisterPatient(ctx, &models.RegisterPatientRequest{
			Login: "ana", Secret: "pw123", DisplayName: "Ana", Contact: "ana@x.io",
		})

		testutil.Then(t, "the caller sees an opaque transaction error", func(t *testing.T) {
			assert.True(t, dErrors.HasCode(err, dErrors.CodeTransaction))
		})

		testutil.Then(t, "neither credential nor identity was kept", func(t *testing.T) {
			exists, err := f.store.LoginExists(ctx, "ana")
			require.NoError(t, err)
			assert.False(t, exists)

			exists, err = f.store.ContactExists(ctx, "ana@x.io")
			require.NoError(t, err)
			assert.False(t, exists)

			patients, err := f.store.ListPatientViews(ctx)
			require.NoError(t, err)
			assert.Empty(t, patients)
		})
	})
}

func TestDeletePatientAccountIsAtomic(t *testing.T) {
	testutil.Given(t, "identity deletion fails after the profile was deleted", func(t *testing.T) {
		f := newFixture(t, nil)
		ctx := context.Background()

		result, err := f.svc.RegisterPatient(ctx, &models.RegisterPatientRequest{
			Login: "ana", Secret: "pw123", DisplayName: "Ana", Contact: "ana@x.io",
		})
		require.NoError(t, err)

		err = f.withStore(t, failingIdentityDeletes{Memory: f.store}).DeletePatientAccount(ctx, result.PatientID)

		testutil.Then(t, "the caller sees an opaque transaction error", func(t *testing.T) {
			assert.True(t, dErrors.HasCode(err, dErrors.CodeTransaction))
		})

		testutil.Then(t, "the whole account is still there", func(t *testing.T) {
			profile, err := f.store.FindPatientProfile(ctx, result.PatientID)
			require.NoError(t, err)
			assert.Equal(t, result.IdentityID, profile.IdentityID)

			_, err = f.store.FindIdentity(ctx, result.IdentityID)
			require.NoError(t, err)

			exists, err := f.store.LoginExists(ctx, "ana")
			require.NoError(t, err)
			assert.True(t, exists)
		})
	})
}

func TestConcurrentRegistrationWithSameLogin(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	const callers = 20
	errs := make([]error, callers)
	var wg sync.WaitGroup
	for i := range callers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, errs[i] = f.svc.RegisterPatient(ctx, &models.RegisterPatientRequest{
				Login:       "ana",
				Secret:      "pw123",
				DisplayName: "Ana",
				Contact:     fmt.Sprintf("ana%d@x.io", i),
			})
		}()
	}
	wg.Wait()

	var ok, conflicts int
	for _, err := range errs {
		switch {
		case err == nil:
			ok++
		case dErrors.HasCode(err, dErrors.CodeConflict):
			conflicts++
		default:
			t.Errorf("unexpected error: %v", err)
		}
	}
	assert.Equal(t, 1, ok)
	assert.Equal(t, callers-1, conflicts)

	patients, err := f.store.ListPatientViews(ctx)
	require.NoError(t, err)
	assert.Len(t, patients, 1)
}
