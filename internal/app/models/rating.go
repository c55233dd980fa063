package models

// RatingRecord is one row of the instructor-rating snapshot, captured
// per instructor per course. All figures stay as captured text ("3.41",
// "N/A", "—"); nothing is parsed until a comparison actually needs a
// number, so unparseable sentinels survive round trips unchanged.
type RatingRecord struct {
	Subject          string `csv:"subject" json:"subject"`
	CourseNumber     string `csv:"course_number" json:"courseNumber"`
	Instructor       string `csv:"instructor" json:"instructor"`
	GPA              string `csv:"gpa" json:"gpa"`
	Rating           string `csv:"rating" json:"rating"`
	Difficulty       string `csv:"difficulty" json:"difficulty"`
	LastTaught       string `csv:"last_taught" json:"lastTaught"`
	CourseGPA        string `csv:"course_gpa" json:"courseGpa"`
	CourseRating     string `csv:"course_rating" json:"courseRating"`
	CourseDifficulty string `csv:"course_difficulty" json:"courseDifficulty"`
	CourseTitle      string `csv:"course_title" json:"courseTitle"`
	CapturedAt       string `csv:"captured_at" json:"capturedAt"`
}
