// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package catalog

import (
	"time"

	"github.com/google/uuid"

	"github.com/markgaal068/bigHITS/internal/model"
)

// fixtureNamespace derives stable UUIDs for fixture records.
var fixtureNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://bighits.local/fixtures"))

func fixtureID(kind, slug string) string {
	return uuid.NewSHA1(fixtureNamespace, []byte(kind+"/"+slug)).String()
}

func mustTime(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		panic(err)
	}
	return t
}

func day(date string) time.Time {
	t, err := time.Parse(model.DateLayout, date)
	if err != nil {
		panic(err)
	}
	return t
}

// FixtureBlogs returns the demo blog posts.
func FixtureBlogs() []model.Blog {
	blogs := []model.Blog{
		{
			ID:        1,
			Title:     "How to Start a Successful Online Business",
			Excerpt:   "Learn the essential steps to launch and grow your online business in today's digital marketplace.",
			Author:    "John Doe",
			Category:  "Business",
			Tags:      []string{"business", "startup"},
			Date:      "2023-03-15",
			Published: true,
			Slug:      "how-to-start-successful-online-business",
		},
		{
			ID:        2,
			Title:     "10 Digital Marketing Strategies That Work",
			Excerpt:   "Discover proven marketing tactics that will help your business stand out in a crowded online space.",
			Author:    "Jane Smith",
			Category:  "Marketing",
			Tags:      []string{"marketing"},
			Date:      "2023-03-10",
			Published: true,
			Slug:      "digital-marketing-strategies-that-work",
		},
		{
			ID:        3,
			Title:     "The Future of E-commerce: Trends to Watch",
			Excerpt:   "Stay ahead of the curve with these emerging e-commerce trends that are shaping the future of online retail.",
			Author:    "Mike Johnson",
			Category:  "E-commerce",
			Tags:      []string{"ecommerce", "trends"},
			Date:      "2023-03-05",
			Published: true,
			Slug:      "future-of-ecommerce-trends",
		},
		{
			ID:        4,
			Title:     "Ultimate Guide to Social Media Marketing",
			Excerpt:   "Learn how to leverage social media platforms to grow your brand and connect with your audience.",
			Author:    "Sarah Williams",
			Category:  "Marketing",
			Tags:      []string{"social media", "marketing"},
			Date:      "2023-02-28",
			Published: true,
			Slug:      "ultimate-guide-social-media-marketing",
		},
		{
			ID:        5,
			Title:     "How to Optimize Your Website for SEO",
			Excerpt:   "Improve your website's visibility in search engines with these proven SEO techniques.",
			Author:    "David Chen",
			Category:  "SEO",
			Tags:      []string{"search"},
			Date:      "2023-02-20",
			Published: false,
			Slug:      "how-to-optimize-website-seo",
		},
		{
			ID:        6,
			Title:     "Building a Personal Brand Online",
			Excerpt:   "Discover strategies to create a strong personal brand that sets you apart in your industry.",
			Author:    "Emma Thompson",
			Category:  "Personal Development",
			Tags:      []string{"branding"},
			Date:      "2023-02-15",
			Published: true,
			Slug:      "building-personal-brand-online",
		},
	}
	for i := range blogs {
		b := &blogs[i]
		b.Content = "## " + b.Title + "\n\n" + b.Excerpt + "\n"
		b.CreatedAt = day(b.Date)
		b.UpdatedAt = b.CreatedAt
	}
	return blogs
}

// FixtureProducts returns the demo shop products.
func FixtureProducts() []model.Product {
	products := []model.Product{
		{Name: "Professional Business Card Design", Price: 49.99, Category: "Design Services", Stock: 999, Published: true,
			Slug: "professional-business-card-design", CreatedAt: mustTime("2023-06-10T08:30:00Z"),
			ShortDescription: "A custom business card designed by a professional.", Featured: true},
		{Name: "SEO Starter Package", Price: 199.99, Category: "Digital Marketing", Stock: 50, Published: true,
			Slug: "seo-starter-package", CreatedAt: mustTime("2023-06-15T10:15:00Z"),
			ShortDescription: "Keyword research, on-page fixes and a ranking report."},
		{Name: "E-commerce Website Template", Price: 79.99, Category: "Web Templates", Stock: 200, Published: true,
			Slug: "ecommerce-website-template", CreatedAt: mustTime("2023-06-18T14:00:00Z"),
			ShortDescription: "A responsive storefront template ready for your products."},
		{Name: "Social Media Marketing Guide (E-book)", Price: 19.99, Category: "E-books", Stock: 5000, Published: true,
			Slug: "social-media-marketing-guide", CreatedAt: mustTime("2023-06-20T09:45:00Z"),
			ShortDescription: "A practical guide to growing an audience on social platforms."},
		{Name: "Logo Design Premium Package", Price: 299.99, Category: "Design Services", Stock: 100, Published: false,
			Slug: "logo-design-premium-package", CreatedAt: mustTime("2023-06-22T11:30:00Z"),
			ShortDescription: "Three logo concepts with unlimited revisions."},
		{Name: "Email Marketing Automation Course", Price: 149.99, Category: "Courses", Stock: 75, Published: true,
			Slug: "email-marketing-automation-course", CreatedAt: mustTime("2023-06-25T13:20:00Z"),
			ShortDescription: "Build automated email funnels that convert."},
	}
	for i := range products {
		p := &products[i]
		p.ID = fixtureID(KindProducts, p.Slug)
		p.Description = p.ShortDescription
		p.UpdatedAt = p.CreatedAt
	}
	return products
}

// FixtureTutors returns the demo tutors.
func FixtureTutors() []model.Tutor {
	tutors := []model.Tutor{
		{Name: "John Smith", Expertise: "Digital Marketing, SEO", Rate: 75, Rating: 4.8,
			Availability: "Mon, Wed, Fri", Published: true, Slug: "john-smith", CreatedAt: mustTime("2023-06-10T08:30:00Z")},
		{Name: "Emma Johnson", Expertise: "Web Development, JavaScript", Rate: 85, Rating: 4.9,
			Availability: "Tue, Thu, Sat", Published: true, Slug: "emma-johnson", CreatedAt: mustTime("2023-06-15T10:15:00Z")},
		{Name: "Michael Williams", Expertise: "Business Strategy, Entrepreneurship", Rate: 95, Rating: 4.7,
			Availability: "Mon, Tue, Wed, Thu, Fri", Published: true, Slug: "michael-williams", CreatedAt: mustTime("2023-06-18T14:00:00Z")},
		{Name: "Sophia Garcia", Expertise: "Content Marketing, Social Media", Rate: 70, Rating: 4.6,
			Availability: "Wed, Thu, Fri, Sat", Published: true, Slug: "sophia-garcia", CreatedAt: mustTime("2023-06-20T09:45:00Z")},
		{Name: "James Wilson", Expertise: "E-commerce, Shopify", Rate: 80, Rating: 4.5,
			Availability: "Mon, Wed, Fri, Sat", Published: false, Slug: "james-wilson", CreatedAt: mustTime("2023-06-22T11:30:00Z")},
		{Name: "Olivia Brown", Expertise: "Product Management, UX Design", Rate: 90, Rating: 4.9,
			Availability: "Tue, Thu, Sat, Sun", Published: true, Slug: "olivia-brown", CreatedAt: mustTime("2023-06-25T13:20:00Z")},
	}
	for i := range tutors {
		t := &tutors[i]
		t.ID = fixtureID(KindTutors, t.Slug)
		t.Bio = t.Name + " teaches " + t.Expertise + "."
		t.UpdatedAt = t.CreatedAt
	}
	return tutors
}
