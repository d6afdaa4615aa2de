package seed

import (
	"time"

	"github.com/magabrotheeeer/storefront/internal/models"
)

func ptr[T any](v T) *T { return &v }

func plans(month, monthCrypto int, monthFeatures []string, year, yearCrypto int, yearFeatures []string) []models.NewPlan {
	return []models.NewPlan{
		{Name: "Monthly", Price: month, PriceCrypto: monthCrypto, CryptoCurrency: "ETH", Interval: models.IntervalMonth, Features: monthFeatures},
		{Name: "Annual", Price: year, PriceCrypto: yearCrypto, CryptoCurrency: "ETH", Interval: models.IntervalYear, Features: yearFeatures, IsPopular: true},
	}
}

func catalog() []product {
	firebase := func() map[string]any { return map[string]any{"apiKey": "sample", "projectId": "sample"} }
	return []product{
		{
			in: models.NewProduct{
				Name:             "Cloud Defender Pro",
				Description:      "Cloud Defender Pro is an enterprise-grade security solution that provides advanced threat detection, network monitoring, and data loss prevention capabilities for businesses of all sizes.",
				ShortDescription: "Enterprise-grade security solution with advanced threat detection",
				Images:           []string{"https://images.unsplash.com/photo-1551288049-bebda4e38f71"},
				Platforms:        []string{"Windows", "macOS", "Linux"},
				FirebaseConfig:   firebase(),
				DownloadLink:     ptr("https://download.example.com/cloud-defender"),
				ZipPassword:      ptr("securepass123"),
				IsActive:         ptr(true),
			},
			plans: plans(
				1999, 10, []string{"Basic security features", "Email support", "5 devices"},
				17988, 100, []string{"All security features", "Priority support", "10 devices"},
			),
		},
		{
			in: models.NewProduct{
				Name:             "DataSync Pro",
				Description:      "DataSync Pro provides seamless data synchronization and backup solutions for teams with end-to-end encryption and version history for complete data protection.",
				ShortDescription: "Seamless data synchronization and backup solution for teams",
				Images:           []string{"https://images.unsplash.com/photo-1558655146-d09347e92766"},
				Platforms:        []string{"Windows", "macOS", "iOS", "Android"},
				FirebaseConfig:   firebase(),
				DownloadLink:     ptr("https://download.example.com/datasync"),
				ZipPassword:      ptr("datasync456"),
				IsActive:         ptr(true),
			},
			plans: plans(
				1499, 8, []string{"10GB storage", "Basic sync", "3 devices"},
				13188, 75, []string{"50GB storage", "Advanced sync", "Unlimited devices"},
			),
		},
		{
			in: models.NewProduct{
				Name:             "DevOps Toolkit",
				Description:      "A comprehensive suite of development and operations tools for continuous integration, deployment, and monitoring of applications.",
				ShortDescription: "Comprehensive suite for CI/CD and application monitoring",
				Images:           []string{"https://images.unsplash.com/photo-1541462608143-67571c6738dd"},
				Platforms:        []string{"Windows", "macOS", "Linux"},
				FirebaseConfig:   firebase(),
				DownloadLink:     ptr("https://download.example.com/devops"),
				ZipPassword:      ptr("devops789"),
				IsActive:         ptr(true),
			},
			plans: plans(
				2999, 15, []string{"5 repositories", "CI/CD pipeline", "Basic monitoring"},
				28788, 150, []string{"Unlimited repositories", "Advanced CI/CD", "Full monitoring suite"},
			),
		},
	}
}

func blogPosts() []models.NewBlogPost {
	now := time.Now().UTC()
	return []models.NewBlogPost{
		{
			Title:         "Top 5 DevOps Trends in 2023",
			Slug:          "top-5-devops-trends-2023",
			Content:       "Lorem ipsum dolor sit amet, consectetur adipiscing elit. Sed do eiusmod tempor incididunt ut labore et dolore magna aliqua.",
			Excerpt:       "Discover the most important DevOps trends that will shape the industry in 2023.",
			FeaturedImage: ptr("https://images.unsplash.com/photo-1555099962-4199c345e5dd"),
			IsPublished:   true,
			PublishedAt:   &now,
		},
		{
			Title:         "How to Secure Your Cloud Infrastructure",
			Slug:          "secure-cloud-infrastructure",
			Content:       "Ut enim ad minim veniam, quis nostrud exercitation ullamco laboris nisi ut aliquip ex ea commodo consequat.",
			Excerpt:       "Learn the best practices to keep your cloud infrastructure secure from modern threats.",
			FeaturedImage: ptr("https://images.unsplash.com/photo-1597733336794-12d05021d510"),
			IsPublished:   true,
			PublishedAt:   &now,
		},
	}
}

func emailTemplates() []models.NewEmailTemplate {
	return []models.NewEmailTemplate{
		{
			Name:    "welcome",
			Subject: "Welcome to Mechxer!",
			Content: "Hello {{username}},\n\nWelcome to Mechxer! We're excited to have you on board.",
		},
		{
			Name:    "subscription_confirmation",
			Subject: "Your Subscription Confirmation",
			Content: "Hello {{username}},\n\nThank you for subscribing to {{productName}}. Your subscription is now active.",
		},
		{
			Name:    "subscription_expiry",
			Subject: "Your Subscription is About to Expire",
			Content: "Hello {{username}},\n\nYour subscription to {{productName}} will expire on {{expiryDate}}.",
		},
	}
}

func contentPages() []models.NewContentPage {
	return []models.NewContentPage{
		{Title: "About Us", Slug: "about", Content: "<h1>About Mechxer</h1><p>Mechxer is a premium software subscription marketplace offering high-quality software solutions for professionals and businesses.</p>"},
		{Title: "Privacy Policy", Slug: "privacy", Content: "<h1>Privacy Policy</h1><p>At Mechxer, we take your privacy seriously...</p>"},
		{Title: "Terms & Conditions", Slug: "terms", Content: "<h1>Terms & Conditions</h1><p>By using Mechxer, you agree to the following terms...</p>"},
		{Title: "DMCA", Slug: "dmca", Content: "<h1>DMCA Policy</h1><p>Mechxer respects the intellectual property rights of others...</p>"},
		{Title: "Contact Us", Slug: "contact", Content: "<h1>Contact Us</h1><p>Have questions? We're here to help...</p>"},
	}
}
