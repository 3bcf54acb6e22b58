package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	EnrollmentsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "learnhub_enrollments_created_total",
		Help: "Enrollments created.",
	})
	CoursesCompleted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "learnhub_courses_completed_total",
		Help: "Enrollments that reached 100% progress.",
	})
	CertificatesIssued = promauto.NewCounter(prometheus.CounterOpts{
		Name: "learnhub_certificates_issued_total",
		Help: "Certificate PDFs rendered.",
	})
	NotificationsSent = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "learnhub_notifications_sent_total",
		Help: "Notifications stored and pushed, by type.",
	}, []string{"type"})
	NotificationsDeduped = promauto.NewCounter(prometheus.CounterOpts{
		Name: "learnhub_notifications_deduped_total",
		Help: "Notifications suppressed by the de-dup window.",
	})
)

// Handler returns the Prometheus scrape handler; main serves it on a side
// listener so the API port stays application-only.
func Handler() http.Handler {
	return promhttp.Handler()
}
