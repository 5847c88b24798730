// Package gdrive uploads exported reports to Google Drive as Google Docs and
// prepares the shared reports folder.
package gdrive

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"

	"github.com/rooted/analytics/internal/infrastructure/config"
)

// MIME types understood by Drive
const (
	MimeGoogleDoc = "application/vnd.google-apps.document"
	MimeFolder    = "application/vnd.google-apps.folder"
	MimeHTML      = "text/html"
)

// DocumentsScope lets uploads be converted into Google Docs
const DocumentsScope = "https://www.googleapis.com/auth/documents"

// ErrNotConfigured is returned when no service account credentials are set
var ErrNotConfigured = errors.New("GOOGLE_APPLICATION_CREDENTIALS not set")

// File is the subset of Drive file metadata the service needs
type File struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	WebViewLink string   `json:"webViewLink"`
	Owners      []string `json:"owners,omitempty"`
}

// Document is one upload converted to a Google Doc
type Document struct {
	Name string
	// Content is uploaded with ContentType and converted by Drive
	Content     []byte
	ContentType string
	// FolderID overrides the configured reports folder
	FolderID string
}

// Uploader converts documents into Google Docs
type Uploader interface {
	UploadDocument(ctx context.Context, doc Document) (*File, error)
}

// Client wraps the Drive v3 API
type Client struct {
	svc         *drive.Service
	folderID    string
	shareDomain string
	ownerEmail  string
	logger      *zap.Logger
}

// Option configures a Client
type Option func(*Client)

// WithLogger sets the logger
func WithLogger(l *zap.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// New authenticates with the service account in cfg.CredentialsFile.
// Extra client options are appended, so tests can point the client at a
// local endpoint without credentials.
func New(ctx context.Context, cfg config.GoogleConfig, clientOpts []option.ClientOption, opts ...Option) (*Client, error) {
	if cfg.CredentialsFile == "" && len(clientOpts) == 0 {
		return nil, ErrNotConfigured
	}

	all := []option.ClientOption{option.WithScopes(drive.DriveFileScope, DocumentsScope)}
	if cfg.CredentialsFile != "" {
		all = append(all, option.WithCredentialsFile(cfg.CredentialsFile))
	}
	all = append(all, clientOpts...)

	svc, err := drive.NewService(ctx, all...)
	if err != nil {
		return nil, fmt.Errorf("create drive service: %w", err)
	}

	c := &Client{
		svc:         svc,
		folderID:    cfg.DriveFolderID,
		shareDomain: cfg.ShareDomain,
		ownerEmail:  cfg.OwnerEmail,
		logger:      zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// UploadDocument uploads content into the reports folder as a Google Doc.
// The folder is shared with the organization, so the file inherits access.
func (c *Client) UploadDocument(ctx context.Context, doc Document) (*File, error) {
	folder := doc.FolderID
	if folder == "" {
		folder = c.folderID
	}
	contentType := doc.ContentType
	if contentType == "" {
		contentType = MimeHTML
	}

	meta := &drive.File{Name: doc.Name, MimeType: MimeGoogleDoc}
	if folder != "" {
		meta.Parents = []string{folder}
	}

	created, err := c.svc.Files.Create(meta).
		Media(bytes.NewReader(doc.Content), googleapi.ContentType(contentType)).
		SupportsAllDrives(true).
		Fields("id, name, webViewLink").
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("upload %q: %w", doc.Name, err)
	}

	c.logger.Info("uploaded document to google drive",
		zap.String("doc_id", created.Id),
		zap.String("folder_id", folder))
	return toFile(created), nil
}

// FolderSetup is the outcome of SetupFolder
type FolderSetup struct {
	Folder *File
	// Existing holds folders that already carried the name; nothing was created
	Existing []File
}

// SetupFolder creates the shared reports folder, transfers ownership to the
// workspace owner and shares it read-only with the organization domain.
// When a folder with that name already exists it is returned untouched.
func (c *Client) SetupFolder(ctx context.Context, name string) (*FolderSetup, error) {
	q := fmt.Sprintf("name='%s' and mimeType='%s' and trashed=false", escapeQuery(name), MimeFolder)
	list, err := c.svc.Files.List().
		Q(q).
		Fields("files(id, name, webViewLink, owners)").
		PageSize(10).
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("search folders: %w", err)
	}
	if len(list.Files) > 0 {
		out := &FolderSetup{}
		for _, f := range list.Files {
			out.Existing = append(out.Existing, *toFile(f))
		}
		return out, nil
	}

	folder, err := c.svc.Files.Create(&drive.File{Name: name, MimeType: MimeFolder}).
		Fields("id, name, webViewLink").
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("create folder: %w", err)
	}
	c.logger.Info("created drive folder", zap.String("folder_id", folder.Id))

	if c.ownerEmail != "" {
		_, err = c.svc.Permissions.Create(folder.Id, &drive.Permission{
			Type:         "user",
			Role:         "owner",
			EmailAddress: c.ownerEmail,
		}).TransferOwnership(true).Context(ctx).Do()
		if err != nil {
			return nil, fmt.Errorf("transfer ownership to %s: %w", c.ownerEmail, err)
		}
	}

	if c.shareDomain != "" {
		_, err = c.svc.Permissions.Create(folder.Id, &drive.Permission{
			Type:   "domain",
			Role:   "reader",
			Domain: c.shareDomain,
		}).Context(ctx).Do()
		if err != nil {
			return nil, fmt.Errorf("share with %s: %w", c.shareDomain, err)
		}
	}

	f := toFile(folder)
	if c.ownerEmail != "" {
		f.Owners = []string{c.ownerEmail}
	}
	return &FolderSetup{Folder: f}, nil
}

func toFile(f *drive.File) *File {
	out := &File{ID: f.Id, Name: f.Name, WebViewLink: f.WebViewLink}
	for _, o := range f.Owners {
		out.Owners = append(out.Owners, o.EmailAddress)
	}
	return out
}

func escapeQuery(s string) string {
	var b bytes.Buffer
	for _, r := range s {
		if r == '\'' || r == '\\' {
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}

var _ Uploader = (*Client)(nil)
