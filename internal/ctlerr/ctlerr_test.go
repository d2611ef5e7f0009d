package ctlerr_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Geno-Claw/artifacts-mmo-sub002/internal/ctlerr"
)

func TestNewAndUnwrap(t *testing.T) {
	cause := errors.New("boom")
	err := ctlerr.New(ctlerr.CodeUnwinnable, "fight cannot be won",
		ctlerr.WithCause(cause),
		ctlerr.WithMeta("monster", "chicken"),
	)

	require.Equal(t, ctlerr.CodeUnwinnable, ctlerr.GetCode(err))
	require.Equal(t, "chicken", ctlerr.GetMeta(err)["monster"])
	require.ErrorIs(t, err, cause)
	require.True(t, ctlerr.Is(err, ctlerr.CodeUnwinnable))
	require.False(t, ctlerr.Is(err, ctlerr.CodeSkillTooLow))
}

func TestNewfFormats(t *testing.T) {
	err := ctlerr.Newf(ctlerr.CodeSkillTooLow, "need %s level %d", "mining", 10)
	require.Equal(t, "need mining level 10", err.Error())
}

func TestGetCodeOnPlainError(t *testing.T) {
	plain := errors.New("plain")
	require.Equal(t, ctlerr.CodeUnknown, ctlerr.GetCode(plain))
	require.Nil(t, ctlerr.GetMeta(plain))
}

func TestClassifyDomain(t *testing.T) {
	cases := map[ctlerr.Code]ctlerr.Domain{
		ctlerr.CodeFatalInit:         ctlerr.DomainFatal,
		ctlerr.CodeInvalidState:      ctlerr.DomainInvariant,
		ctlerr.CodeInternal:          ctlerr.DomainInvariant,
		ctlerr.CodeReservationFailed: ctlerr.DomainContention,
		ctlerr.CodeInventoryFull:     ctlerr.DomainContention,
		ctlerr.CodeUnwinnable:        ctlerr.DomainDecision,
		ctlerr.CodeRecipeCycle:       ctlerr.DomainDecision,
	}
	for code, want := range cases {
		require.Equal(t, want, ctlerr.ClassifyDomain(code), "code %s", code)
	}
}
