package content

import "fmt"

// Kind is the closed set of content families a domain connection can point
// at.  The zero value is invalid so a forgotten assignment never routes.
type Kind int

const (
	KindWebsite Kind = iota + 1
	KindFunnel
	KindCourseArea
)

// ParseKind maps the `content_type` column onto Kind.
func ParseKind(s string) (Kind, error) {
	switch s {
	case "website":
		return KindWebsite, nil
	case "funnel":
		return KindFunnel, nil
	case "course_area":
		return KindCourseArea, nil
	}
	return 0, fmt.Errorf("content: unknown content_type %q", s)
}

func (k Kind) String() string {
	switch k {
	case KindWebsite:
		return "website"
	case KindFunnel:
		return "funnel"
	case KindCourseArea:
		return "course_area"
	}
	return fmt.Sprintf("kind(%d)", int(k))
}
