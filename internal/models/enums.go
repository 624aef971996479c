package models

import "strings"

// UserStatus is the lifecycle state of an account.
type UserStatus string

const (
	UserStatusActive   UserStatus = "ACTIVE"
	UserStatusInactive UserStatus = "INACTIVE"
	UserStatusDeleted  UserStatus = "DELETED"
)

// Gender as collected at signup.
type Gender string

const (
	GenderMale   Gender = "MALE"
	GenderFemale Gender = "FEMALE"
)

// Valid reports whether g is one of the known genders.
func (g Gender) Valid() bool {
	return g == GenderMale || g == GenderFemale
}

// Mbti is one of the sixteen Myers-Briggs type codes.
type Mbti string

const (
	MbtiISTJ Mbti = "ISTJ"
	MbtiISFJ Mbti = "ISFJ"
	MbtiINFJ Mbti = "INFJ"
	MbtiINTJ Mbti = "INTJ"
	MbtiISTP Mbti = "ISTP"
	MbtiISFP Mbti = "ISFP"
	MbtiINFP Mbti = "INFP"
	MbtiINTP Mbti = "INTP"
	MbtiESTP Mbti = "ESTP"
	MbtiESFP Mbti = "ESFP"
	MbtiENFP Mbti = "ENFP"
	MbtiENTP Mbti = "ENTP"
	MbtiESTJ Mbti = "ESTJ"
	MbtiESFJ Mbti = "ESFJ"
	MbtiENFJ Mbti = "ENFJ"
	MbtiENTJ Mbti = "ENTJ"
)

// Valid reports whether m is a well-formed type: one letter from each of the
// E/I, S/N, T/F and J/P axes, in that order.
func (m Mbti) Valid() bool {
	s := string(m)
	if len(s) != 4 {
		return false
	}
	return strings.ContainsRune("EI", rune(s[0])) &&
		strings.ContainsRune("SN", rune(s[1])) &&
		strings.ContainsRune("TF", rune(s[2])) &&
		strings.ContainsRune("JP", rune(s[3]))
}
