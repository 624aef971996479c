package models

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMbtiValid(t *testing.T) {
	for _, m := range []Mbti{MbtiINFJ, MbtiESTP, MbtiENTJ, MbtiISFP} {
		require.True(t, m.Valid(), m)
	}
	for _, m := range []Mbti{"", "INF", "EOFP", "infj", "XNTJ", "INFJP"} {
		require.False(t, m.Valid(), m)
	}
}

func TestGenderValid(t *testing.T) {
	require.True(t, GenderMale.Valid())
	require.True(t, GenderFemale.Valid())
	require.False(t, Gender("male").Valid())
}

func TestUserCompanyIsCanonical(t *testing.T) {
	var nilCompany *UserCompany
	require.False(t, nilCompany.IsCanonical())

	empty := ""
	require.False(t, (&UserCompany{Domain: "gmail.com"}).IsCanonical())
	require.False(t, (&UserCompany{CompanyID: &empty}).IsCanonical())

	id := "0d8f3b9e-2f7c-4c4b-9a47-5c1f0e3f4a11"
	require.True(t, (&UserCompany{CompanyID: &id}).IsCanonical())
}
