/*
Copyright © 2025 Stackpilot Contributors
SPDX-License-Identifier: BSD-3-Clause
*/
package stage

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/orien/stackpilot/internal/aws"
	"github.com/orien/stackpilot/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestKey_IsDeterministicMD5(t *testing.T) {
	assert.Equal(t, "stackpilot-d41d8cd98f00b204e9800998ecf8427e", Key(""))
	assert.Equal(t, "stackpilot-900150983cd24fb0d6963f7d28e17f72", Key("abc"))
	assert.Equal(t, Key("template"), Key("template"))
}

func TestPrepare_InlineAtLimit(t *testing.T) {
	factory := &aws.MockClientFactory{}
	stack := model.NewTestStack("app")
	body := strings.Repeat("x", InlineTemplateLimit)

	source, err := NewStager(factory).Prepare(context.Background(), stack, body)

	require.NoError(t, err)
	assert.Equal(t, body, source.Body)
	assert.Empty(t, source.URL)
	factory.AssertNotCalled(t, "Storage", mock.Anything, mock.Anything)
}

func TestPrepare_StagesOverLimit(t *testing.T) {
	ctx := context.Background()
	body := strings.Repeat("x", InlineTemplateLimit+1)
	stack := model.NewTestStack("app")
	stack.Bucket = "artifacts"
	stack.Region = "ap-southeast-2"

	storage := &aws.MockStorageOperations{}
	storage.On("PutObject", ctx, "artifacts", Key(body), body).
		Return("https://artifacts.s3.ap-southeast-2.amazonaws.com/"+Key(body), nil)
	factory := &aws.MockClientFactory{}
	factory.On("Storage", ctx, "ap-southeast-2").Return(storage, nil)

	source, err := NewStager(factory).Prepare(ctx, stack, body)

	require.NoError(t, err)
	assert.Empty(t, source.Body)
	assert.Equal(t, "https://artifacts.s3.ap-southeast-2.amazonaws.com/"+Key(body), source.URL)
	storage.AssertExpectations(t)
	factory.AssertExpectations(t)
}

func TestPrepare_MissingBucketFailsWithoutNetwork(t *testing.T) {
	factory := &aws.MockClientFactory{}
	stack := model.NewTestStack("app")
	body := strings.Repeat("x", InlineTemplateLimit+1)

	_, err := NewStager(factory).Prepare(context.Background(), stack, body)

	var missing *MissingStagingTargetError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, "app", missing.Stack)
	assert.Equal(t, InlineTemplateLimit+1, missing.Size)
	assert.Contains(t, err.Error(), "[app]")
	factory.AssertNotCalled(t, "Storage", mock.Anything, mock.Anything)
}

func TestPrepare_UploadFailure(t *testing.T) {
	ctx := context.Background()
	body := strings.Repeat("y", InlineTemplateLimit+10)
	stack := model.NewTestStack("app")
	stack.Bucket = "artifacts"

	storage := &aws.MockStorageOperations{}
	storage.On("PutObject", ctx, "artifacts", Key(body), body).Return("", errors.New("AccessDenied"))
	factory := &aws.MockClientFactory{}
	factory.On("Storage", ctx, "us-east-1").Return(storage, nil)

	_, err := NewStager(factory).Prepare(ctx, stack, body)

	var upload *UploadError
	require.ErrorAs(t, err, &upload)
	assert.Equal(t, Key(body), upload.Key)
	assert.Contains(t, err.Error(), "AccessDenied")
}

func TestCheckTarget(t *testing.T) {
	withBucket := model.NewTestStack("a")
	withBucket.Bucket = "b"

	tests := []struct {
		name    string
		stack   *model.Stack
		size    int
		wantErr bool
	}{
		{"small without bucket", model.NewTestStack("a"), 10, false},
		{"limit without bucket", model.NewTestStack("a"), InlineTemplateLimit, false},
		{"oversized without bucket", model.NewTestStack("a"), InlineTemplateLimit + 1, true},
		{"oversized with bucket", withBucket, InlineTemplateLimit + 1, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckTarget(tt.stack, strings.Repeat("z", tt.size))
			if tt.wantErr {
				var missing *MissingStagingTargetError
				assert.ErrorAs(t, err, &missing)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
