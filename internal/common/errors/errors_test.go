package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStandardError_IsMatchesByCode(t *testing.T) {
	err := fmt.Errorf("wallet 0xabc: %w", NewEntityFetchFailedError("wallet_health", "0xabc", stderrors.New("status 502")))

	assert.True(t, Is(err, &StandardError{Code: ErrCodeEntityFetchFailed}))
	assert.False(t, Is(err, &StandardError{Code: ErrCodeSummarizationFailed}))
	assert.Equal(t, ErrCodeEntityFetchFailed, CodeOf(err))
	assert.True(t, IsRetryable(err))
}

func TestStandardError_UnwrapsCause(t *testing.T) {
	cause := stderrors.New("connection reset")
	err := NewSummarizationFailedError(cause)

	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "connection reset", err.Details)
	assert.Contains(t, err.Error(), "SUMMARIZATION_FAILED")
}

func TestProviderHTTPError_Retryability(t *testing.T) {
	assert.True(t, NewProviderHTTPError(503, "nft/wallet/scores").Retryable)
	assert.True(t, NewProviderHTTPError(429, "nft/wallet/scores").Retryable)
	assert.False(t, NewProviderHTTPError(404, "nft/wallet/scores").Retryable)
}

func TestConvertToBPMNError(t *testing.T) {
	bpmn := ConvertToBPMNError(NewClassificationAPIFailedError(stderrors.New("timeout")))
	assert.Equal(t, "CLASSIFICATION_API_FAILED", bpmn.Code)
	assert.Equal(t, 1, bpmn.Retries)

	vars := bpmn.ToErrorVariables()
	assert.Equal(t, "CLASSIFICATION_API_FAILED", vars["originalErrorCode"])
	assert.Equal(t, true, vars["retryable"])

	nonRetryable := ConvertToBPMNError(NewInvalidRequestError("query is required"))
	assert.Equal(t, 0, nonRetryable.Retries)
}

func TestNormalize(t *testing.T) {
	plain := stderrors.New("boom")
	assert.Equal(t, ErrCodePipelineFailed, Normalize(plain).Code)

	typed := NewProfileNotFoundError("u1")
	assert.Same(t, typed, Normalize(fmt.Errorf("load: %w", typed)))
}

func TestGetErrorCategory(t *testing.T) {
	assert.Equal(t, "CLASSIFIER", GetErrorCategory(ErrCodeClassificationParseFailed))
	assert.Equal(t, "ORCHESTRATOR", GetErrorCategory(ErrCodeEntityFetchFailed))
	assert.Equal(t, "ORCHESTRATOR", GetErrorCategory(ErrCodePreconditionUnmet))
	assert.Equal(t, "SYNTHESIZER", GetErrorCategory(ErrCodeSummarizationFailed))
	assert.Equal(t, "PROFILES", GetErrorCategory(ErrCodeProfileStoreFailed))
	assert.Equal(t, "VALIDATION", GetErrorCategory(ErrCodeInvalidRequest))
	assert.Equal(t, "OTHER", GetErrorCategory(ErrCodePipelineFailed))
}
