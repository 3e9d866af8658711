package mappers

import (
	"time"

	"course-store/internal/domain"
	"course-store/internal/providers/scalev"
)

// OrdersToEnrollments filters a customer's orders down to paid ones and maps
// each to an enrollment. Payment state is checked under both field names the
// platform uses. Multi-item orders are represented by their first item.
func OrdersToEnrollments(orders []scalev.OrderRecord) []domain.Enrollment {
	out := make([]domain.Enrollment, 0, len(orders))

	for _, o := range orders {
		if !isPaid(o) {
			continue
		}

		item, ok := firstItem(o)
		if !ok {
			continue
		}

		enrolledAt := o.CreatedAt
		if enrolledAt == "" {
			enrolledAt = time.Now().UTC().Format(time.RFC3339)
		}

		out = append(out, domain.Enrollment{
			CourseID:      firstNonEmpty(item.VariantUniqueID, item.ProductID.String()),
			CourseName:    firstNonEmpty(item.ProductName, item.Name, "Course"),
			EnrolledAt:    enrolledAt,
			OrderID:       firstNonEmpty(o.ID.String(), o.OrderID),
			PaymentStatus: firstNonEmpty(o.PaymentStatus, o.Status),
		})
	}
	return out
}

func isPaid(o scalev.OrderRecord) bool {
	paid := string(domain.PaymentPaid)
	return o.PaymentStatus == paid || o.Status == paid
}

func firstItem(o scalev.OrderRecord) (scalev.OrderVariant, bool) {
	if len(o.OrderVariants) > 0 {
		return o.OrderVariants[0], true
	}
	if len(o.Items) > 0 {
		return o.Items[0], true
	}
	return scalev.OrderVariant{}, false
}
