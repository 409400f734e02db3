// internal/platform/di/shared/infra.go
package shared

import (
	"context"
	"errors"
	"fmt"
	"strings"

	secretmanager "cloud.google.com/go/secretmanager/apiv1"
	"cloud.google.com/go/storage"
	firebase "firebase.google.com/go/v4"
	firebaseauth "firebase.google.com/go/v4/auth"
	log "github.com/sirupsen/logrus"
	"google.golang.org/api/option"

	"phonemall/internal/adapters/out/localstore"
	"phonemall/internal/adapters/out/mail"
	"phonemall/internal/adapters/out/secret"
	appcfg "phonemall/internal/infra/config"
	"phonemall/internal/infra/database"
	firestoreinfra "phonemall/internal/infra/firestore"
)

// Infra is shared runtime infrastructure for DI.
//   - owns external clients (Firestore, GCS, Firebase Auth, Secret Manager, Postgres)
//   - owns the device-local cart store
//
// Infra must NOT depend on console/mall routers or handlers.
type Infra struct {
	Config    *appcfg.Config
	ProjectID string

	// Clients (owned; Close-managed)
	Firestore     *firestoreinfra.ClientWrapper
	GCS           *storage.Client
	FirebaseApp   *firebase.App
	FirebaseAuth  *firebaseauth.Client
	SecretManager *secretmanager.Client
	Postgres      *database.DB
	LocalCarts    localstore.KV

	// Mail is nil when no SendGrid key could be resolved.
	Mail mail.EmailClient
}

// NewInfra initializes shared infra.
// Firestore, GCS, the local cart store and (when selected) Postgres are
// strict. Firebase Auth, Secret Manager and SendGrid are best-effort.
func NewInfra(ctx context.Context, cfg *appcfg.Config) (*Infra, error) {
	if cfg == nil {
		return nil, errors.New("shared.infra: config is nil")
	}
	logger := log.WithField("component", "shared.infra")

	projectID := cfg.ProjectID()
	if projectID == "" {
		return nil, errors.New("shared.infra: projectID is empty (set FIRESTORE_PROJECT_ID or GOOGLE_CLOUD_PROJECT)")
	}
	inf := &Infra{Config: cfg, ProjectID: projectID}

	// Credentials file (optional; mainly for local dev)
	var clientOpts []option.ClientOption
	if credFile := strings.TrimSpace(cfg.GCPCreds); credFile != "" {
		clientOpts = append(clientOpts, option.WithCredentialsFile(credFile))
		logger.WithField("file", redactPath(credFile)).Info("using credentials file for GCP clients")
	} else {
		logger.Info("using Application Default Credentials")
	}

	// 1) Firestore (strict)
	fs, err := firestoreinfra.NewClient(ctx, projectID, clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("shared.infra: %w", err)
	}
	inf.Firestore = fs

	// 2) GCS (strict)
	gcs, err := storage.NewClient(ctx, clientOpts...)
	if err != nil {
		_ = inf.Close()
		return nil, fmt.Errorf("shared.infra: storage.NewClient failed: %w", err)
	}
	inf.GCS = gcs
	if strings.TrimSpace(cfg.GCSImageBucket) == "" {
		logger.Warn("GCS_IMAGE_BUCKET is empty (image upload disabled; image refs served as-is)")
	}

	// 3) Postgres catalog (strict when selected)
	if cfg.CatalogBackend == appcfg.CatalogPostgres {
		db, err := database.NewConnection(ctx, cfg.DatabaseURL)
		if err != nil {
			_ = inf.Close()
			return nil, fmt.Errorf("shared.infra: %w", err)
		}
		inf.Postgres = db
	}

	// 4) Local cart store (strict)
	kv, err := localstore.Open(ctx, cfg.LocalCartDSN)
	if err != nil {
		_ = inf.Close()
		return nil, fmt.Errorf("shared.infra: local cart store: %w", err)
	}
	inf.LocalCarts = kv

	// 5) Secret Manager (best-effort)
	if sm, err := secretmanager.NewClient(ctx, clientOpts...); err != nil {
		logger.WithError(err).Warn("secretmanager.NewClient failed (secret-backed settings disabled)")
	} else {
		inf.SecretManager = sm
	}

	// 6) Firebase App/Auth (best-effort)
	if app, err := firebase.NewApp(ctx, &firebase.Config{ProjectID: projectID}, clientOpts...); err != nil {
		logger.WithError(err).Warn("firebase app init failed")
	} else {
		inf.FirebaseApp = app
		if auth, err := app.Auth(ctx); err != nil {
			logger.WithError(err).Warn("firebase auth init failed")
		} else {
			inf.FirebaseAuth = auth
			logger.Info("firebase auth initialized")
		}
	}

	// 7) SendGrid (best-effort)
	if key := inf.resolveSendGridKey(ctx); key != "" {
		inf.Mail = mail.NewSendGridClient(key, "")
	} else {
		logger.Warn("SendGrid API key not configured (order mails disabled)")
	}

	return inf, nil
}

// resolveSendGridKey prefers SENDGRID_API_KEY and falls back to the secret
// named by SENDGRID_API_KEY_SECRET.
func (i *Infra) resolveSendGridKey(ctx context.Context) string {
	if k := strings.TrimSpace(i.Config.SendGridAPIKey); k != "" {
		return k
	}
	ref := strings.TrimSpace(i.Config.SendGridAPIKeySecret)
	if ref == "" || i.SecretManager == nil {
		return ""
	}
	k, err := secret.NewResolver(i.SecretManager, i.ProjectID).Resolve(ctx, ref)
	if err != nil {
		log.WithError(err).WithField("component", "shared.infra").Warn("SendGrid key secret could not be read")
		return ""
	}
	return k
}

// TokenVerifier returns the Firebase Auth client, or nil when auth is not
// configured. The untyped nil matters to callers that compare against nil.
func (i *Infra) TokenVerifier() interface {
	VerifyIDToken(ctx context.Context, idToken string) (*firebaseauth.Token, error)
} {
	if i.FirebaseAuth == nil {
		return nil
	}
	return i.FirebaseAuth
}

func (i *Infra) Close() error {
	if i == nil {
		return nil
	}
	var errs []error
	if i.LocalCarts != nil {
		errs = append(errs, i.LocalCarts.Close())
	}
	if i.Postgres != nil {
		errs = append(errs, i.Postgres.Close())
	}
	if i.Firestore != nil {
		errs = append(errs, i.Firestore.Close())
	}
	if i.GCS != nil {
		errs = append(errs, i.GCS.Close())
	}
	if i.SecretManager != nil {
		errs = append(errs, i.SecretManager.Close())
	}
	return errors.Join(errs...)
}

func redactPath(p string) string {
	p = strings.ReplaceAll(strings.TrimSpace(p), "\\", "/")
	if p == "" {
		return ""
	}
	parts := strings.Split(p, "/")
	last := parts[len(parts)-1]
	if last == "" {
		return "***"
	}
	return "***/" + last
}
