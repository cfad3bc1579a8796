/*
Copyright © 2025 Stackpilot Contributors
SPDX-License-Identifier: BSD-3-Clause
*/
package deploy

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/orien/stackpilot/internal/aws"
	"github.com/orien/stackpilot/internal/hooks"
	"github.com/orien/stackpilot/internal/logging"
	"github.com/orien/stackpilot/internal/model"
	"github.com/orien/stackpilot/internal/progress"
	"github.com/orien/stackpilot/internal/resolve"
	"github.com/orien/stackpilot/internal/stage"
	"github.com/orien/stackpilot/internal/ui"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const requestToken = "stackpilot-7d1e9a40"

type deployFixture struct {
	cfn      *aws.MockCloudFormationOperations
	storage  *aws.MockStorageOperations
	factory  *aws.MockClientFactory
	hooks    *hooks.MockRunner
	watcher  *progress.MockWatcher
	out      *bytes.Buffer
	deployer *StackDeployer
	calls    []string
}

func newDeployFixture() *deployFixture {
	f := &deployFixture{
		cfn:     &aws.MockCloudFormationOperations{},
		storage: &aws.MockStorageOperations{},
		factory: &aws.MockClientFactory{},
		hooks:   &hooks.MockRunner{},
		watcher: &progress.MockWatcher{},
		out:     &bytes.Buffer{},
	}
	f.factory.On("CloudFormation", mock.Anything, "us-east-1").Return(f.cfn, nil)
	f.factory.On("Storage", mock.Anything, "us-east-1").Return(f.storage, nil)
	f.deployer = NewStackDeployer(f.factory, resolve.NewCfnTemplateProcessor(), f.hooks, f.watcher, f.out, ui.NewStyles(false), logging.Discard())
	f.deployer.newToken = func() string { return requestToken }
	return f
}

func (f *deployFixture) record(name string) func(mock.Arguments) {
	return func(mock.Arguments) { f.calls = append(f.calls, name) }
}

func (f *deployFixture) expectHooks(stack string, event model.Event) {
	f.hooks.On("Run", mock.Anything, mock.MatchedBy(func(s *model.Stack) bool { return s.Name == stack }), event, model.PhasePre).
		Run(f.record(stack + ":pre")).Return(nil).Once()
	f.hooks.On("Run", mock.Anything, mock.MatchedBy(func(s *model.Stack) bool { return s.Name == stack }), event, model.PhasePost).
		Run(f.record(stack + ":post")).Return(nil).Once()
}

func (f *deployFixture) expectWatch(stack string, event model.Event) {
	f.watcher.On("Watch", mock.Anything, mock.MatchedBy(func(s *model.Stack) bool { return s.Name == stack }), event, requestToken).
		Run(f.record(stack + ":watch")).
		Return(&progress.Result{State: progress.StateTerminalSuccess}, nil).Once()
}

func stackNamed(name string) any {
	return mock.MatchedBy(func(input aws.StackInput) bool { return input.StackName == name })
}

func TestDeploy_CreatesNewStackInOrder(t *testing.T) {
	f := newDeployFixture()
	stack := model.NewTestStack("app")
	stack.Parameters = []model.Parameter{{Key: "Env", Value: "prod"}, {Key: "Cidr", Value: "10.0.0.0/16"}}
	stack.Capabilities = []string{"CAPABILITY_IAM"}

	f.cfn.On("StackExists", mock.Anything, "app").Run(f.record("app:exists")).Return(false, nil)
	f.expectHooks("app", model.EventCreate)
	f.cfn.On("CreateStack", mock.Anything, aws.StackInput{
		StackName:    "app",
		Template:     aws.TemplateSource{Body: stack.Template},
		Parameters:   []aws.Parameter{{Key: "Env", Value: "prod"}, {Key: "Cidr", Value: "10.0.0.0/16"}},
		Capabilities: []string{"CAPABILITY_IAM"},
		Token:        requestToken,
	}).Run(f.record("app:create")).Return(nil)
	f.expectWatch("app", model.EventCreate)

	err := f.deployer.Deploy(context.Background(), []*model.Stack{stack}, "")

	require.NoError(t, err)
	assert.Equal(t, []string{"app:exists", "app:pre", "app:create", "app:watch", "app:post"}, f.calls)
	f.cfn.AssertExpectations(t)
	f.hooks.AssertExpectations(t)
	f.watcher.AssertExpectations(t)
}

func TestDeploy_SmallTemplateWithoutBucketIsNotStaged(t *testing.T) {
	f := newDeployFixture()
	stack := model.NewTestStack("net")
	stack.Template = strings.Repeat("x", 40)

	f.cfn.On("StackExists", mock.Anything, "net").Return(false, nil)
	f.expectHooks("net", model.EventCreate)
	f.cfn.On("CreateStack", mock.Anything, mock.MatchedBy(func(input aws.StackInput) bool {
		return input.Template.Body == stack.Template && input.Template.URL == ""
	})).Return(nil)
	f.expectWatch("net", model.EventCreate)

	require.NoError(t, f.deployer.Deploy(context.Background(), []*model.Stack{stack}, ""))
	f.factory.AssertNotCalled(t, "Storage", mock.Anything, mock.Anything)
	f.storage.AssertNotCalled(t, "PutObject", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestDeploy_OversizedTemplateIsStaged(t *testing.T) {
	f := newDeployFixture()
	stack := model.NewTestStack("app")
	stack.Template = strings.Repeat("x", stage.InlineTemplateLimit+1)
	stack.Bucket = "artifacts"
	url := "https://artifacts.s3.us-east-1.amazonaws.com/" + stage.Key(stack.Template)

	f.cfn.On("StackExists", mock.Anything, "app").Return(true, nil)
	f.expectHooks("app", model.EventUpdate)
	f.storage.On("PutObject", mock.Anything, "artifacts", stage.Key(stack.Template), stack.Template).Return(url, nil)
	f.cfn.On("UpdateStack", mock.Anything, mock.MatchedBy(func(input aws.StackInput) bool {
		return input.Template.URL == url && input.Template.Body == ""
	})).Return(nil)
	f.expectWatch("app", model.EventUpdate)

	require.NoError(t, f.deployer.Deploy(context.Background(), []*model.Stack{stack}, ""))
	f.storage.AssertExpectations(t)
}

func TestDeploy_OversizedTemplateWithoutBucketFailsBeforeRemoteCalls(t *testing.T) {
	f := newDeployFixture()
	stack := model.NewTestStack("app")
	stack.Template = strings.Repeat("x", stage.InlineTemplateLimit+1)

	err := f.deployer.Deploy(context.Background(), []*model.Stack{stack}, "")

	var missing *stage.MissingStagingTargetError
	require.ErrorAs(t, err, &missing)
	f.factory.AssertNotCalled(t, "CloudFormation", mock.Anything, mock.Anything)
	f.hooks.AssertNotCalled(t, "Run", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestDeploy_NoChangesSkipsWatchButRunsPostHooks(t *testing.T) {
	f := newDeployFixture()
	stack := model.NewTestStack("app")

	f.cfn.On("StackExists", mock.Anything, "app").Return(true, nil)
	f.expectHooks("app", model.EventUpdate)
	f.cfn.On("UpdateStack", mock.Anything, stackNamed("app")).Return(aws.ErrNoUpdates)

	err := f.deployer.Deploy(context.Background(), []*model.Stack{stack}, "")

	require.NoError(t, err)
	assert.Equal(t, "[app] no changes\n", f.out.String())
	f.watcher.AssertNotCalled(t, "Watch", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	f.hooks.AssertExpectations(t)
}

func TestDeploy_ContinuesPastUpdatedStacks(t *testing.T) {
	f := newDeployFixture()
	stacks := []*model.Stack{
		model.NewTestStack("app", "net"),
		model.NewTestStack("net"),
	}

	f.cfn.On("StackExists", mock.Anything, "net").Return(true, nil)
	f.cfn.On("StackExists", mock.Anything, "app").Return(false, nil)
	f.expectHooks("net", model.EventUpdate)
	f.expectHooks("app", model.EventCreate)
	f.cfn.On("UpdateStack", mock.Anything, stackNamed("net")).Run(f.record("net:update")).Return(nil)
	f.cfn.On("CreateStack", mock.Anything, stackNamed("app")).Run(f.record("app:create")).Return(nil)
	f.expectWatch("net", model.EventUpdate)
	f.expectWatch("app", model.EventCreate)

	err := f.deployer.Deploy(context.Background(), stacks, "")

	require.NoError(t, err)
	assert.Equal(t, []string{
		"net:pre", "net:update", "net:watch", "net:post",
		"app:pre", "app:create", "app:watch", "app:post",
	}, f.calls)
}

func TestDeploy_SingleStackIgnoresOthers(t *testing.T) {
	f := newDeployFixture()
	stacks := []*model.Stack{
		model.NewTestStack("net"),
		model.NewTestStack("app", "net"),
	}

	f.cfn.On("StackExists", mock.Anything, "app").Return(true, nil)
	f.expectHooks("app", model.EventUpdate)
	f.cfn.On("UpdateStack", mock.Anything, stackNamed("app")).Return(nil)
	f.expectWatch("app", model.EventUpdate)

	require.NoError(t, f.deployer.Deploy(context.Background(), stacks, "app"))
	f.cfn.AssertNotCalled(t, "StackExists", mock.Anything, "net")
}

func TestDeploy_SubmissionFailureAbortsRemainingStacks(t *testing.T) {
	f := newDeployFixture()
	stacks := model.NewTestStacks("net", "app")
	rejected := &aws.RemoteRejectedError{Operation: "create", Stack: "net", Code: "ValidationError", Message: "Template format error"}

	f.cfn.On("StackExists", mock.Anything, "net").Return(false, nil)
	f.hooks.On("Run", mock.Anything, mock.Anything, model.EventCreate, model.PhasePre).Return(nil).Once()
	f.cfn.On("CreateStack", mock.Anything, stackNamed("net")).Return(rejected)

	err := f.deployer.Deploy(context.Background(), stacks, "")

	assert.ErrorIs(t, err, rejected)
	f.cfn.AssertNotCalled(t, "StackExists", mock.Anything, "app")
	f.hooks.AssertNotCalled(t, "Run", mock.Anything, mock.Anything, model.EventCreate, model.PhasePost)
	f.watcher.AssertNotCalled(t, "Watch", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestDeploy_HookFailureAbortsPlan(t *testing.T) {
	f := newDeployFixture()
	stacks := model.NewTestStacks("net", "app")
	hookErr := &hooks.HookFailedError{Stack: "net", Hook: "check", ExitCode: 1}

	f.cfn.On("StackExists", mock.Anything, "net").Return(false, nil)
	f.hooks.On("Run", mock.Anything, mock.Anything, model.EventCreate, model.PhasePre).Return(hookErr)

	err := f.deployer.Deploy(context.Background(), stacks, "")

	var failed *hooks.HookFailedError
	require.ErrorAs(t, err, &failed)
	f.cfn.AssertNotCalled(t, "CreateStack", mock.Anything, mock.Anything)
	f.cfn.AssertNotCalled(t, "StackExists", mock.Anything, "app")
}

func TestDeploy_FailedOperationSkipsPostHooks(t *testing.T) {
	f := newDeployFixture()
	stack := model.NewTestStack("app")
	opErr := &progress.OperationFailedError{Stack: "app", Status: "ROLLBACK_COMPLETE"}

	f.cfn.On("StackExists", mock.Anything, "app").Return(false, nil)
	f.hooks.On("Run", mock.Anything, stack, model.EventCreate, model.PhasePre).Return(nil)
	f.cfn.On("CreateStack", mock.Anything, stackNamed("app")).Return(nil)
	f.watcher.On("Watch", mock.Anything, stack, model.EventCreate, requestToken).
		Return(&progress.Result{State: progress.StateTerminalFailure}, opErr)

	err := f.deployer.Deploy(context.Background(), []*model.Stack{stack}, "")

	assert.ErrorIs(t, err, opErr)
	f.hooks.AssertNotCalled(t, "Run", mock.Anything, stack, model.EventCreate, model.PhasePost)
}

func TestDeploy_ExistenceCheckFailureIsFatal(t *testing.T) {
	f := newDeployFixture()
	f.cfn.On("StackExists", mock.Anything, "app").Return(false, errors.New("AccessDenied"))

	err := f.deployer.Deploy(context.Background(), model.NewTestStacks("app"), "")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "[app] failed to check whether stack exists")
	f.hooks.AssertNotCalled(t, "Run", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestDeploy_PlanningErrors(t *testing.T) {
	tests := []struct {
		name   string
		stacks []*model.Stack
		target string
		check  func(t *testing.T, err error)
	}{
		{
			name:   "unknown stack",
			stacks: model.NewTestStacks("app"),
			target: "db",
			check: func(t *testing.T, err error) {
				assert.ErrorIs(t, err, resolve.ErrStackNotFound)
			},
		},
		{
			name:   "unknown dependency",
			stacks: []*model.Stack{model.NewTestStack("app", "vpc")},
			check: func(t *testing.T, err error) {
				var unknown *resolve.UnknownDependencyError
				assert.ErrorAs(t, err, &unknown)
			},
		},
		{
			name:   "cycle",
			stacks: []*model.Stack{model.NewTestStack("a", "b"), model.NewTestStack("b", "a")},
			check: func(t *testing.T, err error) {
				var cyclic *resolve.CyclicDependencyError
				assert.ErrorAs(t, err, &cyclic)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newDeployFixture()
			err := f.deployer.Deploy(context.Background(), tt.stacks, tt.target)
			tt.check(t, err)
			f.factory.AssertNotCalled(t, "CloudFormation", mock.Anything, mock.Anything)
		})
	}
}

func TestDeploy_RenderFailure(t *testing.T) {
	f := newDeployFixture()
	stack := model.NewTestStack("app")
	stack.Template = "{{ .missing | required \"missing is required\" }}"
	stack.Values = map[string]any{}

	err := f.deployer.Deploy(context.Background(), []*model.Stack{stack}, "")

	var renderErr *resolve.RenderError
	require.ErrorAs(t, err, &renderErr)
	assert.Equal(t, "app", renderErr.Stack)
}

func TestSubmit_RejectsOtherEvents(t *testing.T) {
	factory := &aws.MockClientFactory{}
	factory.On("CloudFormation", mock.Anything, "us-east-1").Return(&aws.MockCloudFormationOperations{}, nil)

	err := NewSubmitter(factory).Submit(context.Background(), model.NewTestStack("app"), model.EventDelete, aws.TemplateSource{}, requestToken)

	assert.Error(t, err)
}

func TestSubmit_EmptyCapabilitiesAreSentAsEmptyList(t *testing.T) {
	cfn := &aws.MockCloudFormationOperations{}
	factory := &aws.MockClientFactory{}
	factory.On("CloudFormation", mock.Anything, "us-east-1").Return(cfn, nil)
	stack := model.NewTestStack("app")
	stack.Capabilities = nil
	stack.Parameters = nil

	cfn.On("CreateStack", mock.Anything, mock.MatchedBy(func(input aws.StackInput) bool {
		return input.Capabilities != nil && len(input.Capabilities) == 0 && len(input.Parameters) == 0
	})).Return(nil)

	require.NoError(t, NewSubmitter(factory).Submit(context.Background(), stack, model.EventCreate, aws.TemplateSource{Body: "{}"}, requestToken))
	cfn.AssertExpectations(t)
}

func TestDeploy_WatchFollowsTheSubmittedToken(t *testing.T) {
	f := newDeployFixture()
	f.deployer.newToken = aws.NewRequestToken

	var submitted, watched string
	f.cfn.On("StackExists", mock.Anything, "app").Return(true, nil)
	f.hooks.On("Run", mock.Anything, mock.Anything, model.EventUpdate, mock.Anything).Return(nil)
	f.cfn.On("UpdateStack", mock.Anything, stackNamed("app")).
		Run(func(args mock.Arguments) { submitted = args.Get(1).(aws.StackInput).Token }).Return(nil)
	f.watcher.On("Watch", mock.Anything, mock.Anything, model.EventUpdate, mock.Anything).
		Run(func(args mock.Arguments) { watched = args.String(3) }).
		Return(&progress.Result{State: progress.StateTerminalSuccess}, nil)

	require.NoError(t, f.deployer.Deploy(context.Background(), model.NewTestStacks("app"), ""))
	assert.NotEmpty(t, submitted)
	assert.Equal(t, submitted, watched)
}
