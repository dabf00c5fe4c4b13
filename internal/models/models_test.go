package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBook_MarshalJSONMillisecondTimestamps(t *testing.T) {
	tests := []struct {
		name string
		at   time.Time
		want string
	}{
		{"whole second", time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC), "2024-05-01T10:00:00.000Z"},
		{"trailing zero", time.Date(2024, 5, 1, 10, 0, 0, 120*int(time.Millisecond), time.UTC), "2024-05-01T10:00:00.120Z"},
		{"non-UTC zone", time.Date(2024, 5, 1, 12, 0, 0, 5*int(time.Millisecond), time.FixedZone("CEST", 2*3600)), "2024-05-01T10:00:00.005Z"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := json.Marshal(Book{ID: "abc", Name: "Sapiens", InsertedAt: tt.at, UpdatedAt: tt.at})
			require.NoError(t, err)

			var fields map[string]any
			require.NoError(t, json.Unmarshal(data, &fields))
			assert.Equal(t, tt.want, fields["insertedAt"])
			assert.Equal(t, tt.want, fields["updatedAt"])
			assert.Equal(t, "Sapiens", fields["name"])
			assert.Equal(t, false, fields["finished"])
		})
	}
}

func TestBook_TimestampsDecodeBack(t *testing.T) {
	at := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	data, err := json.Marshal(Book{ID: "abc", InsertedAt: at, UpdatedAt: at})
	require.NoError(t, err)

	var book Book
	require.NoError(t, json.Unmarshal(data, &book))
	assert.True(t, at.Equal(book.InsertedAt))
}

func TestBookEvent_MarshalJSON(t *testing.T) {
	data, err := json.Marshal(BookEvent{
		Time:     time.Date(2024, 5, 1, 10, 0, 1, 0, time.UTC),
		Action:   ActionDeleted,
		BookID:   "abc",
		BookName: "Sapiens",
	})
	require.NoError(t, err)
	assert.JSONEq(t, `{"time":"2024-05-01T10:00:01.000Z","action":"deleted","bookId":"abc","bookName":"Sapiens"}`, string(data))
}

func TestBookPayload_UnmarshalJSONNumbers(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		want    BookPayload
		wantErr bool
	}{
		{
			name: "integers",
			body: `{"name":"x","year":2011,"pageCount":100,"readPage":25,"reading":true}`,
			want: BookPayload{Name: "x", Year: 2011, PageCount: 100, ReadPage: 25, Reading: true},
		},
		{
			name: "integral floats",
			body: `{"name":"x","year":2011.0,"pageCount":100.0,"readPage":2.5e1}`,
			want: BookPayload{Name: "x", Year: 2011, PageCount: 100, ReadPage: 25},
		},
		{
			name: "absent and null",
			body: `{"name":"x","pageCount":null}`,
			want: BookPayload{Name: "x"},
		},
		{name: "fractional", body: `{"name":"x","pageCount":100.5}`, wantErr: true},
		{name: "string number", body: `{"name":"x","pageCount":"100"}`, wantErr: true},
		{name: "out of range", body: `{"name":"x","readPage":1e300}`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var payload BookPayload
			err := json.Unmarshal([]byte(tt.body), &payload)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, payload)
		})
	}
}
