package utils

import (
	"fmt"
	"math/rand"
	"strings"

	"github.com/accord-hospitals/interview-portal/backend/internal/domain"
)

var firstNames = []string{
	"Aarav", "Vivaan", "Aditya", "Ishaan", "Rohan", "Ananya", "Diya", "Kavya",
	"Meera", "Priya", "Rahul", "Sneha", "Suraj", "Pooja", "Nikhil", "Swati",
}

var lastNames = []string{
	"Kumar", "Sharma", "Patil", "Deshmukh", "Iyer", "Reddy", "Joshi", "Kulkarni",
	"Nair", "Gupta", "Warule", "Shinde",
}

var departments = []string{
	"Cardiology", "Nursing", "Radiology", "Pharmacy", "Administration", "Pathology", "Orthopaedics",
}

var positions = []string{
	"Staff Nurse", "Resident Doctor", "Lab Technician", "Pharmacist", "Front Office Executive", "Radiographer",
}

var qualifications = []string{"SSC", "HSC", "B.Sc Nursing", "MBBS", "B.Pharm", "DMLT", "MBA"}

var organizations = []string{"Apollo Hospitals", "Fortis", "Ruby Hall Clinic", "Manipal Hospitals", "City Clinic"}

var relationships = []string{"Father", "Mother", "Spouse", "Brother", "Sister"}

const digits = "0123456789"

func GenerateRandomName() string {
	return firstNames[rand.Intn(len(firstNames))] + " " + lastNames[rand.Intn(len(lastNames))]
}

// GenerateRandomContact returns a ten digit mobile number starting with 6-9.
func GenerateRandomContact() string {
	b := make([]byte, 10)
	b[0] = "6789"[rand.Intn(4)]
	for i := 1; i < len(b); i++ {
		b[i] = digits[rand.Intn(len(digits))]
	}
	return string(b)
}

var letters = []rune("abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789!@#$%^&*")

func GenerateRandomPassword(length int) string {
	randomPassword := make([]rune, length)
	for i := range randomPassword {
		randomPassword[i] = letters[rand.Intn(len(letters))]
	}
	return string(randomPassword)
}

func GenerateRandomAcademicHistory() []domain.AcademicEntry {
	n := rand.Intn(3) + 1
	entries := make([]domain.AcademicEntry, n)
	year := 2005 + rand.Intn(10)
	for i := range entries {
		entries[i] = domain.AcademicEntry{
			Qualification: qualifications[rand.Intn(len(qualifications))],
			Institution:   lastNames[rand.Intn(len(lastNames))] + " College",
			Board:         "State Board",
			YearOfPassing: fmt.Sprintf("%d", year+i*2),
			Score:         fmt.Sprintf("%d%%", 55+rand.Intn(40)),
		}
	}
	return entries
}

func GenerateRandomProfessionalHistory() []domain.ProfessionalEntry {
	n := rand.Intn(3)
	entries := make([]domain.ProfessionalEntry, n)
	for i := range entries {
		from := 2012 + i*3
		entries[i] = domain.ProfessionalEntry{
			Organization:     organizations[rand.Intn(len(organizations))],
			Designation:      positions[rand.Intn(len(positions))],
			From:             fmt.Sprintf("%d", from),
			To:               fmt.Sprintf("%d", from+2),
			LastSalary:       fmt.Sprintf("%d", 15000+rand.Intn(60)*1000),
			ReasonForLeaving: "Career growth",
		}
	}
	return entries
}

func GenerateRandomFamilyDetails() []domain.FamilyMember {
	n := rand.Intn(3) + 1
	members := make([]domain.FamilyMember, n)
	for i := range members {
		members[i] = domain.FamilyMember{
			Name:         GenerateRandomName(),
			Relationship: relationships[rand.Intn(len(relationships))],
			Occupation:   "Self employed",
		}
	}
	return members
}

// GenerateRandomApplication builds a freshly submitted application with
// encoded sub-records. Roughly a third of the candidates have no email.
func GenerateRandomApplication() (*domain.Application, error) {
	name := GenerateRandomName()

	academic, err := domain.EncodeSubRecords(GenerateRandomAcademicHistory())
	if err != nil {
		return nil, err
	}
	professional, err := domain.EncodeSubRecords(GenerateRandomProfessionalHistory())
	if err != nil {
		return nil, err
	}
	family, err := domain.EncodeSubRecords(GenerateRandomFamilyDetails())
	if err != nil {
		return nil, err
	}

	contact := GenerateRandomContact()
	app := &domain.Application{
		Name:              name,
		Contact:           contact,
		CurrentAddress:    fmt.Sprintf("%d MG Road, Pune", rand.Intn(500)+1),
		Position:          positions[rand.Intn(len(positions))],
		Department:        departments[rand.Intn(len(departments))],
		ExperienceSummary: fmt.Sprintf("%d years", rand.Intn(15)),
		NoticePeriod:      fmt.Sprintf("%d days", []int{0, 15, 30, 60, 90}[rand.Intn(5)]),
		ExpectedSalary:    fmt.Sprintf("%d", 20000+rand.Intn(80)*1000),
		Status:            domain.StatusApplied,
		Academic:          academic,
		Professional:      professional,
		Family:            family,
	}
	if rand.Intn(3) != 0 {
		app.Email = strings.ToLower(strings.ReplaceAll(name, " ", ".")) + "." + contact[6:] + "@example.com"
	}

	return app, nil
}
