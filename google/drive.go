package google

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/oauth2"
	drive "google.golang.org/api/drive/v3"
	"google.golang.org/api/option"
)

// File identifies an uploaded Drive file.
type File struct {
	ID   string
	Name string
}

// DriveClient uploads files to Google Drive using a caller-supplied access
// token. Stateless; token freshness is the lifecycle manager's problem.
type DriveClient struct {
	logger *slog.Logger
	opts   []option.ClientOption
}

// DriveOption configures a DriveClient.
type DriveOption func(*DriveClient)

// WithDriveLogger sets a custom logger.
func WithDriveLogger(logger *slog.Logger) DriveOption {
	return func(d *DriveClient) {
		d.logger = logger
	}
}

// WithDriveOptions appends extra client options for the Drive service, e.g.
// an endpoint override.
func WithDriveOptions(opts ...option.ClientOption) DriveOption {
	return func(d *DriveClient) {
		d.opts = append(d.opts, opts...)
	}
}

// NewDriveClient creates a Drive uploader.
func NewDriveClient(opts ...DriveOption) *DriveClient {
	d := &DriveClient{logger: slog.Default()}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Upload creates a file with the given name and content in the user's Drive.
// Downstream API failures come back as *googleapi.Error with the provider's
// status and payload.
func (d *DriveClient) Upload(ctx context.Context, accessToken, filename, content string) (*File, error) {
	opts := append([]option.ClientOption{
		option.WithTokenSource(oauth2.StaticTokenSource(&oauth2.Token{AccessToken: accessToken})),
	}, d.opts...)

	svc, err := drive.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("drive service: %w", err)
	}

	created, err := svc.Files.Create(&drive.File{Name: filename}).
		Media(strings.NewReader(content)).
		Fields("id", "name").
		Context(ctx).
		Do()
	if err != nil {
		return nil, err
	}

	d.logger.Info("file uploaded to drive", "file_id", created.Id, "file_name", created.Name)
	return &File{ID: created.Id, Name: created.Name}, nil
}
