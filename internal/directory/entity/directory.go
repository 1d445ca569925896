package entity

import "errors"

// ErrUnknownSpecialty is returned when a doctor references a missing specialty.
var ErrUnknownSpecialty = errors.New("directory: unknown specialty")

type Specialty struct {
	ID          int64
	Name        string
	Description string
	ImageURL    string
}

type Address struct {
	ID        int64
	Address   string
	NumberExt string
	NumberInt string
}

// Doctor is the list projection: specialty names and image urls are
// aggregated per doctor.
type Doctor struct {
	ID           int64
	FirstName    string
	LastName     string
	PhoneNumber  string
	Availability bool
	Specialties  []string
	ImageURLs    []string
}

type DoctorSpecialty struct {
	ID   int64
	Name string
}

type DoctorDetail struct {
	ID           int64
	FirstName    string
	LastName     string
	PhoneNumber  string
	Availability bool
	Specialties  []DoctorSpecialty
	Addresses    []Address
	ImageURLs    []string
}

// DoctorData is the writable shape of a doctor with its associations.
type DoctorData struct {
	FirstName    string
	LastName     string
	PhoneNumber  string
	Availability bool
	SpecialtyIDs []int64
	Addresses    []Address
	ImageURLs    []string
}
