package reminder

import (
	"fmt"

	"github.com/KasumiMercury/bearjetso-reminder-scheduling/internal/domain"
)

const testTitle = "Bear Jetso"

func pluralize(n int, unit string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, unit)
	}
	return fmt.Sprintf("%d %ss", n, unit)
}

func expiryDayMessage(item *domain.DiscountItem) (string, string) {
	return item.Title, fmt.Sprintf("%s expires today. Use it before it's gone!", item.Title)
}

func weeklyMessage(item *domain.DiscountItem, weeksBefore int) (string, string) {
	return item.Title, fmt.Sprintf("%s expires in %s (%s).", item.Title, pluralize(weeksBefore, "week"), item.ExpiryDate)
}

func approachingMessage(item *domain.DiscountItem, daysRemaining int) (string, string) {
	return item.Title, fmt.Sprintf("Deadline approaching: %s left to use %s.", pluralize(daysRemaining, "day"), item.Title)
}

func ongoingMessage(item *domain.DiscountItem) (string, string) {
	return item.Title, fmt.Sprintf("%s is active now. Remember to use it!", item.Title)
}

// TestMessage is the content of the one-off test notification.
func TestMessage() (string, string) {
	return testTitle, "Notifications are working. You will be reminded before your coupons expire."
}
