// Package codec turns raw records fetched from the remote endpoint into
// validated [models.RemoteQuote] values.
//
// Two remote layouts are understood: the native quotes layout
// ({id, text, category, modifiedAt}) and the placeholder posts layout
// ({id, title, body}) where the title becomes the quote text and every
// record falls into the "Server" category. A record that cannot be decoded
// or validated is reported as a [models.MalformedRecordError] and skipped;
// it never fails the whole snapshot.
package codec

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/MKhiriev/go-quote-keeper/internal/quotes"
	"github.com/MKhiriev/go-quote-keeper/internal/validators"
	"github.com/MKhiriev/go-quote-keeper/models"
)

const (
	SchemeQuotes = "quotes"
	SchemePosts  = "posts"

	// PostsCategory is the category assigned to every post.
	PostsCategory = "Server"
	postIDPrefix  = "post-"
)

// Result is the outcome of decoding one remote snapshot.
type Result struct {
	Quotes    []models.RemoteQuote
	Malformed []*models.MalformedRecordError
}

//go:generate mockgen -source=codec.go -destination=../mock/codec_mock.go -package=mock

// Decoder decodes a remote snapshot.
type Decoder interface {
	// Decode converts raw records. It fails with models.ErrMalformedPayload
	// only when the snapshot as a whole is unusable.
	Decode(ctx context.Context, records []json.RawMessage) (Result, error)
	// Scheme names the layout handled by the decoder.
	Scheme() string
}

// NewDecoder returns the decoder of scheme. postsLimit caps how many posts
// are taken from a posts snapshot; zero means no cap.
func NewDecoder(scheme string, postsLimit int, validator validators.Validator) (Decoder, error) {
	switch scheme {
	case SchemeQuotes, "":
		return &quotesDecoder{validator: validator}, nil
	case SchemePosts:
		return &postsDecoder{limit: postsLimit, validator: validator}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownScheme, scheme)
	}
}

// flexibleID accepts identifiers encoded as JSON strings or numbers.
type flexibleID string

func (f *flexibleID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*f = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = flexibleID(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("id must be a string or a number")
	}
	*f = flexibleID(n.String())
	return nil
}

type quoteRecord struct {
	ID         flexibleID `json:"id"`
	Text       *string    `json:"text"`
	Category   *string    `json:"category"`
	ModifiedAt int64      `json:"modifiedAt"`
}

type quotesDecoder struct {
	validator validators.Validator
}

func (d *quotesDecoder) Scheme() string { return SchemeQuotes }

func (d *quotesDecoder) Decode(ctx context.Context, records []json.RawMessage) (Result, error) {
	return decodeAll(ctx, records, d.validator, func(raw json.RawMessage) (models.RemoteQuote, error) {
		var rec quoteRecord
		if err := strictUnmarshal(raw, &rec); err != nil {
			return models.RemoteQuote{}, err
		}
		if rec.Text == nil || rec.Category == nil {
			return models.RemoteQuote{}, fmt.Errorf("text and category are required")
		}
		return models.RemoteQuote{
			ID:         string(rec.ID),
			Text:       *rec.Text,
			Category:   *rec.Category,
			ModifiedAt: rec.ModifiedAt,
		}, nil
	})
}

type postRecord struct {
	ID    flexibleID `json:"id"`
	Title *string    `json:"title"`
}

type postsDecoder struct {
	limit     int
	validator validators.Validator
}

func (d *postsDecoder) Scheme() string { return SchemePosts }

func (d *postsDecoder) Decode(ctx context.Context, records []json.RawMessage) (Result, error) {
	if d.limit > 0 && len(records) > d.limit {
		records = records[:d.limit]
	}
	return decodeAll(ctx, records, d.validator, func(raw json.RawMessage) (models.RemoteQuote, error) {
		var rec postRecord
		if err := strictUnmarshal(raw, &rec); err != nil {
			return models.RemoteQuote{}, err
		}
		if rec.Title == nil {
			return models.RemoteQuote{}, fmt.Errorf("title is required")
		}
		id := ""
		if rec.ID != "" {
			id = postIDPrefix + string(rec.ID)
		}
		return models.RemoteQuote{ID: id, Text: *rec.Title, Category: PostsCategory}, nil
	})
}

func decodeAll(
	ctx context.Context,
	records []json.RawMessage,
	validator validators.Validator,
	decode func(json.RawMessage) (models.RemoteQuote, error),
) (Result, error) {
	res := Result{Quotes: make([]models.RemoteQuote, 0, len(records))}
	ids := make(map[string]int, len(records))

	for i, raw := range records {
		if err := ctx.Err(); err != nil {
			return Result{}, err
		}

		q, err := decode(raw)
		if err == nil {
			q.Text, q.Category = quotes.Normalize(q.Text), quotes.Normalize(q.Category)
			err = validator.Validate(ctx, q)
		}
		if err != nil {
			res.Malformed = append(res.Malformed, &models.MalformedRecordError{Index: i, Reason: err.Error()})
			continue
		}

		if q.HasID() {
			if first, dup := ids[q.ID]; dup {
				return Result{}, fmt.Errorf("%w: records #%d and #%d share id %q",
					models.ErrMalformedPayload, first, i, q.ID)
			}
			ids[q.ID] = i
		}
		res.Quotes = append(res.Quotes, q)
	}

	return res, nil
}

// strictUnmarshal rejects non-object records.
func strictUnmarshal(raw json.RawMessage, dst any) error {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return fmt.Errorf("record is not a JSON object")
	}
	if err := json.Unmarshal(trimmed, dst); err != nil {
		return fmt.Errorf("decode record: %w", err)
	}
	return nil
}
